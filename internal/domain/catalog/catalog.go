// Package catalog loads and serves the static hobby and step-up catalogs.
//
// Catalogs are read once at startup and never mutated afterwards; accessors
// hand out copies so callers cannot change the shared data.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

//go:embed data/hobbies.yaml
var bundledHobbies []byte

//go:embed data/stepups.yaml
var bundledStepUps []byte

// Catalog holds the base hobbies and the step-up hobbies.
type Catalog struct {
	hobbies []model.Hobby
	stepUps []model.StepUpHobby

	hobbyIndex  map[int]int
	stepUpIndex map[int]int
}

// New validates the given records and builds a Catalog preserving their order.
func New(hobbies []model.Hobby, stepUps []model.StepUpHobby) (*Catalog, error) {
	if err := validate(hobbies, stepUps); err != nil {
		return nil, err
	}

	c := &Catalog{
		hobbies:     slices.Clone(hobbies),
		stepUps:     slices.Clone(stepUps),
		hobbyIndex:  make(map[int]int, len(hobbies)),
		stepUpIndex: make(map[int]int, len(stepUps)),
	}
	for i, h := range c.hobbies {
		c.hobbyIndex[h.ID] = i
	}
	for i, s := range c.stepUps {
		c.stepUpIndex[s.ID] = i
	}
	return c, nil
}

// Bundled returns the catalog compiled into the binary.
func Bundled() (*Catalog, error) {
	return Parse(bundledHobbies, FormatYAML, bundledStepUps, FormatYAML)
}

// Parse decodes both catalogs and validates them.
func Parse(hobbiesData []byte, hobbiesFormat Format, stepUpsData []byte, stepUpsFormat Format) (*Catalog, error) {
	var hobbies []model.Hobby
	if err := decode(hobbiesData, hobbiesFormat, &hobbies); err != nil {
		return nil, fmt.Errorf("%w: hobbies: %w", ErrLoadCatalog, err)
	}
	var stepUps []model.StepUpHobby
	if err := decode(stepUpsData, stepUpsFormat, &stepUps); err != nil {
		return nil, fmt.Errorf("%w: step-ups: %w", ErrLoadCatalog, err)
	}
	return New(hobbies, stepUps)
}

// Hobbies returns a copy of the base catalog in catalog order.
func (c *Catalog) Hobbies() []model.Hobby {
	return slices.Clone(c.hobbies)
}

// StepUps returns a copy of the step-up catalog in catalog order.
func (c *Catalog) StepUps() []model.StepUpHobby {
	return slices.Clone(c.stepUps)
}

// Hobby looks up a base hobby by id.
func (c *Catalog) Hobby(id int) (model.Hobby, bool) {
	i, ok := c.hobbyIndex[id]
	if !ok {
		return model.Hobby{}, false
	}
	return c.hobbies[i], true
}

// StepUp looks up a step-up hobby by id.
func (c *Catalog) StepUp(id int) (model.StepUpHobby, bool) {
	i, ok := c.stepUpIndex[id]
	if !ok {
		return model.StepUpHobby{}, false
	}
	return c.stepUps[i], true
}

// Len returns the number of base hobbies and step-up hobbies.
func (c *Catalog) Len() (hobbies, stepUps int) {
	return len(c.hobbies), len(c.stepUps)
}
