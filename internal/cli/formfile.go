package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hygieat/internal/storage"
	"hygieat/internal/vendor"

	"gopkg.in/yaml.v3"
)

// FormFile is the YAML description of one registration. Media entries are
// http(s) URLs or paths relative to the file itself.
type FormFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Banner      string         `yaml:"banner"`
	Video       string         `yaml:"video"`
	Location    *fileLocation  `yaml:"location"`
	Menu        []fileMenuItem `yaml:"menu"`

	dir string
}

type fileLocation struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type fileMenuItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Image string `yaml:"image"`
}

func LoadFormFile(path string) (*FormFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f FormFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(abs)
	return &f, nil
}

func (f *FormFile) reference(s string) storage.Reference {
	s = strings.TrimSpace(s)
	ref := storage.ParseReference(s)
	if ref.IsLocal() && !filepath.IsAbs(s) {
		return storage.Local(filepath.Join(f.dir, s))
	}
	return ref
}

// Transitions replays the file as the sequence of edits a user would make.
func (f *FormFile) Transitions() []func(vendor.Form) vendor.Form {
	steps := []func(vendor.Form) vendor.Form{
		func(v vendor.Form) vendor.Form { return v.SetStallName(f.Name) },
		func(v vendor.Form) vendor.Form { return v.SetDescription(f.Description) },
		func(v vendor.Form) vendor.Form { return v.SetBanner(f.reference(f.Banner)) },
	}

	if video := f.reference(f.Video); !video.IsZero() {
		steps = append(steps, func(v vendor.Form) vendor.Form { return v.SetVideo(video) })
	}
	if f.Location != nil {
		loc := vendor.Coordinates{Latitude: f.Location.Latitude, Longitude: f.Location.Longitude}
		steps = append(steps, func(v vendor.Form) vendor.Form { return v.MoveMarker(loc) })
	}

	for i, item := range f.Menu {
		i, item := i, item
		if i > 0 {
			steps = append(steps, vendor.Form.AddMenuItem)
		}
		image := f.reference(item.Image)
		steps = append(steps, func(v vendor.Form) vendor.Form {
			return v.UpdateMenuItemName(i, item.Name).
				UpdateMenuItemPrice(i, item.Price).
				SetMenuItemImage(i, image)
		})
	}
	return steps
}

// Session loads the file into a fresh session for ownerID.
func (f *FormFile) Session(ownerID string) *vendor.Session {
	s := vendor.NewSession(ownerID)
	for _, step := range f.Transitions() {
		s.Apply(step)
	}
	return s
}

// MediaProblems lists local media that is missing or has an unsupported type.
func MediaProblems(sub vendor.ValidSubmission) []string {
	var problems []string
	check := func(label string, ref storage.Reference, kind storage.Kind) {
		if !ref.IsLocal() {
			return
		}
		if err := vendor.ValidateMediaExtension(ref.Path(), kind); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", label, err))
			return
		}
		if _, err := os.Stat(ref.Path()); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s not found", label, ref.Path()))
		}
	}

	check("banner", sub.Banner, storage.Image)
	check("video", sub.Video, storage.Video)
	for _, item := range sub.Menu {
		check("menu "+item.Name, item.Image, storage.Image)
	}
	return problems
}
