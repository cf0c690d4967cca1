package heuristic

import (
	"errors"
	"fmt"

	"github.com/mrsinham/bidsheur/internal/bids"
)

// DefaultOutType is the conversion output used when a key does not name one.
const DefaultOutType = "nii.gz"

// ErrEmptyTemplate is returned by CreateKey for an empty template string.
var ErrEmptyTemplate = errors.New("template must be a valid format string")

// TemplateKey identifies one destination bucket. It is comparable and used
// as a map key; build it with CreateKey.
type TemplateKey struct {
	Template          string
	OutType           string
	AnnotationClasses string
}

// KeyOption customizes a TemplateKey.
type KeyOption func(*TemplateKey)

// WithOutType overrides the output file type.
func WithOutType(outType string) KeyOption {
	return func(k *TemplateKey) {
		if outType != "" {
			k.OutType = outType
		}
	}
}

// WithAnnotationClasses sets the annotation-class placeholder.
func WithAnnotationClasses(classes string) KeyOption {
	return func(k *TemplateKey) {
		k.AnnotationClasses = classes
	}
}

// CreateKey validates template and returns the key.
func CreateKey(template string, opts ...KeyOption) (TemplateKey, error) {
	if template == "" {
		return TemplateKey{}, ErrEmptyTemplate
	}
	if _, err := bids.Parse(template); err != nil {
		return TemplateKey{}, fmt.Errorf("create key: %w", err)
	}

	key := TemplateKey{Template: template, OutType: DefaultOutType}
	for _, opt := range opts {
		opt(&key)
	}
	return key, nil
}

// Path renders the key's template with v.
func (k TemplateKey) Path(v bids.Values) (string, error) {
	tpl, err := bids.Parse(k.Template)
	if err != nil {
		return "", err
	}
	return tpl.Render(v), nil
}
