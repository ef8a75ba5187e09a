/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
)

// Credentials are the decrypted connection settings of the astraDbApi credential type.
type Credentials struct {
	// Endpoint is the database API endpoint URL.
	Endpoint string `json:"endpoint" validate:"required,url"`
	// Token is the application token sent as a bearer secret.
	Token string `json:"token" validate:"required"`
}

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

// Struct returns the shared struct validator. Field names in errors use json tags.
func Struct() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New()
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structValidator
}

// ValidateCredentials checks that endpoint and token are present, are strings and are
// non-empty after trimming. The returned credentials are trimmed.
func ValidateCredentials(raw map[string]any) (Credentials, error) {
	endpoint, err := credentialString(raw, "endpoint")
	if err != nil {
		return Credentials{}, err
	}
	token, err := credentialString(raw, "token")
	if err != nil {
		return Credentials{}, err
	}

	creds := Credentials{Endpoint: endpoint, Token: token}
	if err := Struct().Struct(creds); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Credentials{}, apperrors.NewCredentialError(fe.Field(), tagMessage(fe.Tag()))
		}
		return Credentials{}, apperrors.NewCredentialError("credentials", err.Error())
	}
	return creds, nil
}

func credentialString(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", apperrors.NewCredentialError(field, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewCredentialError(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.NewCredentialError(field, "must not be empty")
	}
	return s, nil
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + tag + " validation"
	}
}
