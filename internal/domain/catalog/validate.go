package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

// validate checks struct tags and the cross-record invariants of both catalogs.
func validate(hobbies []model.Hobby, stepUps []model.StepUpHobby) error {
	v := validatorInstance()
	var errs []error

	seen := make(map[int]struct{}, len(hobbies))
	for i := range hobbies {
		h := &hobbies[i]
		if err := v.Struct(h); err != nil {
			errs = append(errs, fmt.Errorf("hobby %d (%s): %w", h.ID, h.Name, err))
		}
		if _, dup := seen[h.ID]; dup {
			errs = append(errs, fmt.Errorf("hobby %d: duplicate id", h.ID))
		}
		seen[h.ID] = struct{}{}
		// An outdoor-only hobby cannot be a home hobby.
		if !h.Indoor && h.Location == model.LocationHome {
			errs = append(errs, fmt.Errorf("hobby %d (%s): indoor=false with location home", h.ID, h.Name))
		}
	}

	seen = make(map[int]struct{}, len(stepUps))
	for i := range stepUps {
		s := &stepUps[i]
		if err := v.Struct(s); err != nil {
			errs = append(errs, fmt.Errorf("step-up %d (%s): %w", s.ID, s.Name, err))
		}
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("step-up %d: duplicate id", s.ID))
		}
		seen[s.ID] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}
