// Package response holds the envelope every category and book operation answers with.
package response

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata codes.
const (
	CodeOK   = "00"
	CodeFail = "-1"
)

// Metadata messages.
const (
	MessageOK   = "Response ok"
	MessageFail = "Response nok"
)

// DetailOK is the detail used by read operations that succeed.
const DetailOK = "Successful response"

// Metadata describes the outcome of an operation.
type Metadata struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Detail  string `json:"detail"`
}

// Data is the payload of an envelope: an ordered sequence of items keyed on the
// wire by the entity plural, e.g. {"categories": [...]}.
type Data[T any] struct {
	Key   string
	Items []T
}

func (d Data[T]) MarshalJSON() ([]byte, error) {
	items := d.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(map[string][]T{d.Key: items})
}

func (d *Data[T]) UnmarshalJSON(b []byte) error {
	var m map[string][]T
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if d.Key != "" {
		d.Items = m[d.Key]
		return nil
	}
	if len(m) > 1 {
		return errors.New("response: ambiguous payload, more than one key")
	}
	for k, v := range m {
		d.Key, d.Items = k, v
	}
	return nil
}

// Envelope wraps every response with metadata and a payload sequence.
type Envelope[T any] struct {
	Metadata Metadata `json:"metadata"`
	Data     Data[T]  `json:"data"`
}

// New returns an empty envelope whose payload is keyed by key.
func New[T any](key string) *Envelope[T] {
	return &Envelope[T]{Data: Data[T]{Key: key, Items: []T{}}}
}

// SetMetadata overwrites the metadata triple.
func (e *Envelope[T]) SetMetadata(message, code, detail string) {
	e.Metadata = Metadata{Message: message, Code: code, Detail: detail}
}

// OK marks the envelope successful and sets its payload.
func (e *Envelope[T]) OK(detail string, items ...T) *Envelope[T] {
	if items == nil {
		items = []T{}
	}
	e.Data.Items = items
	e.SetMetadata(MessageOK, CodeOK, detail)
	return e
}

// Fail marks the envelope failed. The payload is always emptied.
func (e *Envelope[T]) Fail(detail string) *Envelope[T] {
	e.Data.Items = []T{}
	e.SetMetadata(MessageFail, CodeFail, detail)
	return e
}

// Succeeded reports whether the metadata carries the success code.
func (e *Envelope[T]) Succeeded() bool {
	return e.Metadata.Code == CodeOK
}

// Items returns the payload sequence.
func (e *Envelope[T]) Items() []T {
	return e.Data.Items
}

// First returns the first payload item, if any.
func (e *Envelope[T]) First() (T, bool) {
	var zero T
	if len(e.Data.Items) == 0 {
		return zero, false
	}
	return e.Data.Items[0], true
}
