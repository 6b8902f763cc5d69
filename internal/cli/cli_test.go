package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hygieat/internal/logger"
	"hygieat/internal/storage"
	"hygieat/internal/vendor"
)

const sampleForm = `name: Raju's Chaat
description: Spicy street chaat
banner: banner.jpg
location:
  latitude: 18.5204
  longitude: 73.8567
menu:
  - name: Vada Pav
    price: 20
    image: vada.jpg
  - name: Chai
    price: "10"
    image: https://res.cloudinary.com/demo/chai.jpg
  - name: ""
    price: ""
`

func writeFormDir(t *testing.T, form string, media ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range media {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name+"-bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, "stall.yaml")
	if err := os.WriteFile(path, []byte(form), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type pathUploader struct {
	mu    sync.Mutex
	paths map[string]string
	fail  bool
}

func (u *pathUploader) Upload(ctx context.Context, path string, kind storage.Kind, publicID string) (string, error) {
	if u.fail {
		return "", errors.New("cloudinary unavailable")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.paths == nil {
		u.paths = map[string]string{}
	}
	u.paths[publicID] = path
	return "https://res.cloudinary.com/demo/" + publicID, nil
}

func run(t *testing.T, deps Dependencies, args ...string) (int, string, string) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute(context.Background(), args, deps, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidate_ReportsSummary(t *testing.T) {
	path := writeFormDir(t, sampleForm, "banner.jpg", "vada.jpg")

	code, out, errOut := run(t, Dependencies{}, "validate", "-f", path, "--format", "json")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}

	var result validateResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if result.StallID != "rajuschaat" {
		t.Errorf("expected stall id rajuschaat, got %q", result.StallID)
	}
	if result.MenuItems != 2 || result.DroppedRows != 1 {
		t.Errorf("expected 2 items and 1 dropped row, got %+v", result)
	}
	if result.Latitude != 18.5204 {
		t.Errorf("location not applied: %v", result.Latitude)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	path := writeFormDir(t, "name: Raju's Chaat\nmenu:\n  - name: Chai\n    price: \"10\"\n")

	code, _, errOut := run(t, Dependencies{}, "validate", "-f", path)
	if code != exitRejected {
		t.Fatalf("expected exit %d, got %d", exitRejected, code)
	}
	if !strings.Contains(errOut, vendor.CategoryMissingFields) {
		t.Errorf("expected missing fields message, got %q", errOut)
	}
}

func TestValidate_MissingLocalMedia(t *testing.T) {
	path := writeFormDir(t, sampleForm, "banner.jpg")

	code, out, _ := run(t, Dependencies{}, "validate", "-f", path)
	if code != exitRejected {
		t.Fatalf("expected exit %d, got %d", exitRejected, code)
	}
	if !strings.Contains(out, "vada.jpg not found") {
		t.Errorf("expected missing image problem, got:\n%s", out)
	}
}

func TestValidate_UnknownKeyFails(t *testing.T) {
	path := writeFormDir(t, "name: x\nbanr: typo.jpg\n")

	code, _, errOut := run(t, Dependencies{}, "validate", "-f", path)
	if code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, code)
	}
	if !strings.Contains(errOut, "banr") {
		t.Errorf("expected unknown field in error, got %q", errOut)
	}
}

func TestRegister_UploadsAndStores(t *testing.T) {
	path := writeFormDir(t, sampleForm, "banner.jpg", "vada.jpg")
	up := &pathUploader{}
	repo := vendor.NewInMemoryRepository()
	closed := false

	deps := Dependencies{
		Open: func(ctx context.Context) (*vendor.Service, func(context.Context) error, error) {
			svc := vendor.NewService(up, repo, vendor.WithLogger(logger.Discard()))
			return svc, func(context.Context) error { closed = true; return nil }, nil
		},
	}

	code, out, errOut := run(t, deps, "register", "-f", path, "--owner", "owner-9", "--format", "yaml")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	if !closed {
		t.Error("backends not closed")
	}

	wantBanner := filepath.Join(filepath.Dir(path), "banner.jpg")
	if up.paths["rajuschaat_banner"] != wantBanner {
		t.Errorf("banner resolved to %q, want %q", up.paths["rajuschaat_banner"], wantBanner)
	}

	records := repo.Records()
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].OwnerID != "owner-9" {
		t.Errorf("owner not stored: %q", records[0].OwnerID)
	}
	if records[0].Menu[1].Image != "https://res.cloudinary.com/demo/chai.jpg" {
		t.Errorf("hosted image re-uploaded: %s", records[0].Menu[1].Image)
	}
	if !strings.Contains(out, "hygieneGrade: B") {
		t.Errorf("expected yaml record on stdout, got:\n%s", out)
	}
}

func TestRegister_RejectedFormNeverOpensBackends(t *testing.T) {
	path := writeFormDir(t, "name: Raju's Chaat\ndescription: Spicy\nbanner: https://res.cloudinary.com/demo/b.jpg\n")

	deps := Dependencies{
		Open: func(ctx context.Context) (*vendor.Service, func(context.Context) error, error) {
			t.Fatal("backends opened for an invalid form")
			return nil, nil, nil
		},
	}

	code, _, errOut := run(t, deps, "register", "-f", path)
	if code != exitRejected {
		t.Fatalf("expected exit %d, got %d", exitRejected, code)
	}
	if !strings.Contains(errOut, vendor.CategoryEmptyMenu) {
		t.Errorf("expected empty menu message, got %q", errOut)
	}
}

func TestRegister_UploadFailure(t *testing.T) {
	path := writeFormDir(t, sampleForm, "banner.jpg", "vada.jpg")
	repo := vendor.NewInMemoryRepository()

	deps := Dependencies{
		Open: func(ctx context.Context) (*vendor.Service, func(context.Context) error, error) {
			svc := vendor.NewService(&pathUploader{fail: true}, repo, vendor.WithLogger(logger.Discard()))
			return svc, func(context.Context) error { return nil }, nil
		},
	}

	code, _, errOut := run(t, deps, "register", "-f", path)
	if code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, code)
	}
	if !strings.Contains(errOut, vendor.ErrRegistrationFailed.Error()) {
		t.Errorf("expected generic failure message, got %q", errOut)
	}
	if len(repo.Records()) != 0 {
		t.Error("record written after upload failure")
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := run(t, Dependencies{}, "deploy")
	if code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(errOut, "No such command 'deploy'") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestOutputFormat_RejectsUnknown(t *testing.T) {
	var f outputFormat
	if err := f.Set("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
	if err := f.Set("YAML"); err != nil || f != formatYAML {
		t.Fatalf("expected yaml, got %q (%v)", f, err)
	}
}
