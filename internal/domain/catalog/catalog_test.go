package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hobbyseeds/internal/domain/catalog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validHobby(id int) model.Hobby {
	return model.Hobby{
		ID:       id,
		Name:     "cloud watching",
		Category: model.CategoryContemplative,
		Minutes:  5,
		Location: model.LocationAnywhere,
		Energy:   model.EnergyLow,
		Indoor:   false,
		TryStep:  "look up",
		Tags:     []string{"nature"},
	}
}

func validStepUp(id int) model.StepUpHobby {
	return model.StepUpHobby{
		ID:          id,
		Name:        "birding",
		MatchTags:   []string{"nature"},
		Description: "watch birds",
		NextSteps:   []string{"get binoculars", "visit a park"},
	}
}

func TestBundled(t *testing.T) {
	Convey("Given the bundled catalog", t, func() {
		c, err := catalog.Bundled()

		Convey("Then it loads and validates", func() {
			So(err, ShouldBeNil)
			hobbies, stepUps := c.Len()
			So(hobbies, ShouldBeGreaterThan, 10)
			So(stepUps, ShouldBeGreaterThan, 3)
		})

		Convey("And every outdoor-only hobby leaves home", func() {
			for _, h := range c.Hobbies() {
				if !h.Indoor {
					So(h.Location, ShouldNotEqual, model.LocationHome)
				}
				So(h.Tags, ShouldNotBeEmpty)
			}
		})

		Convey("And lookups by id work", func() {
			h, ok := c.Hobby(1)
			So(ok, ShouldBeTrue)
			So(h.Name, ShouldEqual, "雲観察")

			_, ok = c.Hobby(9999)
			So(ok, ShouldBeFalse)

			s, ok := c.StepUp(1)
			So(ok, ShouldBeTrue)
			So(len(s.NextSteps), ShouldBeBetweenOrEqual, 2, 4)
		})

		Convey("And accessors return copies", func() {
			hobbies := c.Hobbies()
			hobbies[0].Name = "changed"
			again := c.Hobbies()
			So(again[0].Name, ShouldNotEqual, "changed")
		})
	})
}

func TestNewValidation(t *testing.T) {
	Convey("Given catalog records", t, func() {
		Convey("When they are valid", func() {
			c, err := catalog.New([]model.Hobby{validHobby(1)}, []model.StepUpHobby{validStepUp(1)})
			So(err, ShouldBeNil)
			So(c, ShouldNotBeNil)
		})

		Convey("When a hobby has no tags", func() {
			h := validHobby(1)
			h.Tags = nil
			_, err := catalog.New([]model.Hobby{h}, nil)
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When an outdoor-only hobby claims home", func() {
			h := validHobby(1)
			h.Location = model.LocationHome
			_, err := catalog.New([]model.Hobby{h}, nil)
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "indoor=false")
		})

		Convey("When ids repeat", func() {
			_, err := catalog.New([]model.Hobby{validHobby(1), validHobby(1)}, nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "duplicate id")
		})

		Convey("When a category is unknown", func() {
			h := validHobby(1)
			h.Category = "sleeping"
			_, err := catalog.New([]model.Hobby{h}, nil)
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a step-up has too many next steps", func() {
			s := validStepUp(1)
			s.NextSteps = []string{"a", "b", "c", "d", "e"}
			_, err := catalog.New(nil, []model.StepUpHobby{s})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a step-up repeats a match tag", func() {
			s := validStepUp(1)
			s.MatchTags = []string{"nature", "nature"}
			_, err := catalog.New(nil, []model.StepUpHobby{s})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})
	})
}

func TestLoadDir(t *testing.T) {
	Convey("Given a catalog directory", t, func() {
		dir := t.TempDir()

		Convey("When it holds JSON hobbies and YAML step-ups", func() {
			hobbies := `[{"id":7,"name":"doodle","category":"creative","time":5,"cost":0,"location":"home","energy":"low","indoor":true,"tryStep":"draw","emoji":"x","tags":["art"]}]`
			stepUps := "- id: 2\n  name: painting\n  matchTags: [art]\n  description: paint\n  nextSteps: [buy brushes, paint]\n"
			So(os.WriteFile(filepath.Join(dir, "hobbies.json"), []byte(hobbies), 0o600), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, "stepups.yml"), []byte(stepUps), 0o600), ShouldBeNil)

			c, err := catalog.LoadDir(dir)

			Convey("Then both catalogs load", func() {
				So(err, ShouldBeNil)
				h, ok := c.Hobby(7)
				So(ok, ShouldBeTrue)
				So(h.Minutes, ShouldEqual, 5)
				So(h.Tags, ShouldResemble, []string{"art"})
				s, ok := c.StepUp(2)
				So(ok, ShouldBeTrue)
				So(s.MatchTags, ShouldResemble, []string{"art"})
			})
		})

		Convey("When a file is missing", func() {
			_, err := catalog.LoadDir(dir)
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})

		Convey("When a file is malformed", func() {
			So(os.WriteFile(filepath.Join(dir, "hobbies.json"), []byte("{nope"), 0o600), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, "stepups.yaml"), []byte("[]"), 0o600), ShouldBeNil)
			_, err := catalog.LoadDir(dir)
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})
	})
}
