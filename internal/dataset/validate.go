package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func datasetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks that ds can be stored: an interface type is set, segments
// lie within the image and sample ids are unique.
func Validate(ds *Dataset) error {
	if ds == nil {
		return dsxerrors.NewValidationError("dataset", "dataset is nil", nil)
	}
	if err := datasetValidator().Struct(ds); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Dataset.")
			return dsxerrors.NewValidationError(field, fmt.Sprintf("failed on the '%s' rule", fe.Tag()), err)
		}
		return dsxerrors.NewValidationError("dataset", err.Error(), err)
	}

	seen := make(map[string]int, len(ds.Samples))
	for i, s := range ds.Samples {
		if s.ID == "" {
			continue
		}
		if first, ok := seen[s.ID]; ok {
			return dsxerrors.NewValidationError(
				fmt.Sprintf("samples[%d]._id", i),
				fmt.Sprintf("duplicate sample id %q (first used by samples[%d])", s.ID, first),
				nil,
			)
		}
		seen[s.ID] = i
	}
	return nil
}
