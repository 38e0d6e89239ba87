// Package bind decodes and validates JSON request payloads, turning
// decode and validation failures into coded project errors
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Init builds the singleton validator: english translations, json tag names
// in messages, and the op_kind tag for edit payloads
func Init() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// error messages should name the wire field, not the Go field
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		shortMessage(v, trans, "min", "{0} must be at least {1}")
		shortMessage(v, trans, "max", "{0} must be at most {1}")

		registerOpKind(v, trans)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc {
	if vSvc == nil {
		return Init()
	}
	return vSvc
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{
		MaxBytes:        1 << 20,
		DisallowUnknown: true,
		AllowEmptyBody:  false,
	}
}

// errNoBody marks a request whose body was empty when one was required
var errNoBody = errors.New("bind: empty body")

// bodyReader prepares the request body for decoding, applying the size cap
// and, when empty bodies are disallowed, probing the first byte
func bodyReader(r *http.Request, o JSONOptions) (io.Reader, error) {
	if o.AllowEmptyBody {
		if o.MaxBytes > 0 {
			return io.LimitReader(r.Body, o.MaxBytes), nil
		}
		return r.Body, nil
	}

	probe := make([]byte, 1)
	n, _ := r.Body.Read(probe)
	if n == 0 {
		return nil, errNoBody
	}
	combined := io.MultiReader(bytes.NewReader(probe[:n]), r.Body)
	if o.MaxBytes > 0 {
		return io.LimitReader(combined, o.MaxBytes), nil
	}
	return combined, nil
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project
// errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	reader, err := bodyReader(r, o)
	if errors.Is(err, errNoBody) {
		// safe and idempotent methods may legitimately carry no body
		switch r.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		if inv, ok := err.(*validator.InvalidValidationError); ok {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}

	return dst, nil
}

// ValidationFieldAndMessage returns the first failing field and its
// translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// shortMessage overrides a builtin tag's translation with a terse one
func shortMessage(v *validator.Validate, trans ut.Translator, tag, template string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, template, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// registerOpKind wires the op_kind tag: the value must be one of the edit
// operation discriminators
func registerOpKind(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("op_kind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "insert", "delete", "replace":
			return true
		}
		return false
	})
	_ = v.RegisterTranslation("op_kind", trans,
		func(ut ut.Translator) error {
			return ut.Add("op_kind", "{0} must be insert, delete or replace", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("op_kind", fe.Field())
			return msg
		},
	)
}
