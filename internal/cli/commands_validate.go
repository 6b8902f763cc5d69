package cli

import (
	"fmt"
	"strconv"

	"hygieat/internal/vendor"

	"github.com/spf13/cobra"
)

type validateResult struct {
	StallID     string   `json:"stall_id" yaml:"stall_id"`
	Name        string   `json:"name" yaml:"name"`
	MenuItems   int      `json:"menu_items" yaml:"menu_items"`
	DroppedRows int      `json:"dropped_rows" yaml:"dropped_rows"`
	HasVideo    bool     `json:"has_video" yaml:"has_video"`
	Latitude    float64  `json:"latitude" yaml:"latitude"`
	Longitude   float64  `json:"longitude" yaml:"longitude"`
	Problems    []string `json:"problems" yaml:"problems"`
}

func newValidateCommand() *cobra.Command {
	var (
		path   string
		format outputFormat
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a registration file without uploading anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := LoadFormFile(path)
			if err != nil {
				return err
			}

			form := file.Session("").Form()
			sub, err := vendor.Validate(form)
			if err != nil {
				return rejected(cmd, err)
			}

			result := validateResult{
				StallID:     vendor.StallID(sub.StallName),
				Name:        sub.StallName,
				MenuItems:   len(sub.Menu),
				DroppedRows: len(form.Menu) - len(sub.Menu),
				HasVideo:    !sub.Video.IsZero(),
				Latitude:    sub.Coordinates.Latitude,
				Longitude:   sub.Coordinates.Longitude,
				Problems:    MediaProblems(sub),
			}
			if result.Problems == nil {
				result.Problems = []string{}
			}

			rows := []row{
				{"stall id", result.StallID},
				{"name", result.Name},
				{"menu items", strconv.Itoa(result.MenuItems)},
				{"dropped rows", strconv.Itoa(result.DroppedRows)},
				{"video", strconv.FormatBool(result.HasVideo)},
				{"location", fmt.Sprintf("%.6f,%.6f", result.Latitude, result.Longitude)},
			}
			for _, p := range result.Problems {
				rows = append(rows, row{"problem", p})
			}

			if err := render(cmd.OutOrStdout(), format, result, rows); err != nil {
				return err
			}
			if len(result.Problems) > 0 {
				return &exitError{code: exitRejected}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Registration YAML file.")
	_ = cmd.MarkFlagRequired("file")
	addFormatFlag(cmd.Flags(), &format)

	return cmd
}
