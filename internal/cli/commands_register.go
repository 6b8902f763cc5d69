package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hygieat/internal/vendor"

	"github.com/spf13/cobra"
)

func newRegisterCommand(deps Dependencies) *cobra.Command {
	var (
		path    string
		ownerID string
		format  outputFormat
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Upload a registration file's media and store the vendor record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := LoadFormFile(path)
			if err != nil {
				return err
			}

			session := file.Session(strings.TrimSpace(ownerID))

			// fail before any backend is opened
			sub, err := vendor.Validate(session.Form())
			if err != nil {
				return rejected(cmd, err)
			}
			if problems := MediaProblems(sub); len(problems) > 0 {
				return rejected(cmd, errors.New(strings.Join(problems, "\n")))
			}

			if deps.Open == nil {
				return errors.New("no registration backend configured")
			}
			ctx := cmd.Context()
			svc, closeFn, err := deps.Open(ctx)
			if err != nil {
				return fmt.Errorf("open backends: %w", err)
			}
			defer func() { _ = closeFn(context.WithoutCancel(ctx)) }()

			record, err := session.Submit(ctx, svc)
			if err != nil {
				var vErr *vendor.ValidationError
				if errors.As(err, &vErr) {
					return rejected(cmd, err)
				}
				return fmt.Errorf("%s: %w", vendor.UserMessage(err), err)
			}

			video := ""
			if record.Video != nil {
				video = *record.Video
			}
			rows := []row{
				{"id", record.ID},
				{"name", record.Name},
				{"banner", record.Image},
				{"video", video},
				{"menu items", strconv.Itoa(len(record.Menu))},
			}
			return render(cmd.OutOrStdout(), format, record, rows)
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Registration YAML file.")
	cmd.Flags().StringVar(&ownerID, "owner", "", "Owner account id stored on the record.")
	_ = cmd.MarkFlagRequired("file")
	addFormatFlag(cmd.Flags(), &format)

	return cmd
}
