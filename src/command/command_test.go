package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/apimgr/catalog/src/model"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   Command
	}{
		{
			name:   "get all",
			tokens: []string{"GET", "products"},
			want:   Command{Method: MethodGet, Operation: OpGetAll},
		},
		{
			name:   "get all lowercase method",
			tokens: []string{"get", "products"},
			want:   Command{Method: MethodGet, Operation: OpGetAll},
		},
		{
			name:   "get by id",
			tokens: []string{"GET", "products/42"},
			want:   Command{Method: MethodGet, Operation: OpGetByID, ProductID: 42},
		},
		{
			name:   "get by id numeric prefix",
			tokens: []string{"GET", "products/12abc"},
			want:   Command{Method: MethodGet, Operation: OpGetByID, ProductID: 12},
		},
		{
			name:   "get by id ignores extra segments",
			tokens: []string{"GET", "products/5/reviews"},
			want:   Command{Method: MethodGet, Operation: OpGetByID, ProductID: 5},
		},
		{
			name:   "create with default description",
			tokens: []string{"POST", "products", "Shirt", "19.99", "Clothing"},
			want: Command{
				Method:    MethodPost,
				Operation: OpCreate,
				Data: &model.ProductInput{
					Title:       "Shirt",
					Price:       19.99,
					Category:    "Clothing",
					Description: DefaultDescription,
				},
			},
		},
		{
			name:   "create joins description tokens",
			tokens: []string{"Post", "products", "Mug", "7", "Kitchen", "white", "ceramic", "mug"},
			want: Command{
				Method:    MethodPost,
				Operation: OpCreate,
				Data: &model.ProductInput{
					Title:       "Mug",
					Price:       7,
					Category:    "Kitchen",
					Description: "white ceramic mug",
				},
			},
		},
		{
			name:   "delete",
			tokens: []string{"DELETE", "products/7"},
			want:   Command{Method: MethodDelete, Operation: OpDelete, ProductID: 7},
		},
		{
			name:   "delete ignores trailing tokens",
			tokens: []string{"delete", "products/7", "now"},
			want:   Command{Method: MethodDelete, Operation: OpDelete, ProductID: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tokens)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.tokens, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   error
	}{
		{"no tokens", nil, model.ErrInvalidCommand},
		{"one token", []string{"GET"}, model.ErrInvalidCommand},
		{"unknown method", []string{"BOGUS", "products"}, model.ErrInvalidCommand},
		{"put is unsupported", []string{"PUT", "products/1"}, model.ErrInvalidCommand},
		{"get wrong path", []string{"GET", "users"}, model.ErrInvalidCommand},
		{"get path is case sensitive", []string{"GET", "Products"}, model.ErrInvalidCommand},
		{"get non numeric id", []string{"GET", "products/abc"}, model.ErrInvalidProductID},
		{"get empty id", []string{"GET", "products/"}, model.ErrInvalidProductID},
		{"get zero id", []string{"GET", "products/0"}, model.ErrInvalidProductID},
		{"get huge id", []string{"GET", "products/99999999999999999999999"}, model.ErrInvalidProductID},
		{"post wrong path", []string{"POST", "products/1", "a", "1", "b"}, model.ErrInvalidCommand},
		{"post missing category", []string{"POST", "products", "Shirt", "19.99"}, model.ErrMissingParameters},
		{"post no params", []string{"POST", "products"}, model.ErrMissingParameters},
		{"post empty title", []string{"POST", "products", "", "19.99", "Clothing"}, model.ErrMissingParameters},
		{"post price not a number", []string{"POST", "products", "Shirt", "abc", "Clothing"}, model.ErrInvalidPrice},
		{"post price trailing garbage", []string{"POST", "products", "Shirt", "19.99abc", "Clothing"}, model.ErrInvalidPrice},
		{"post price infinite", []string{"POST", "products", "Shirt", "Inf", "Clothing"}, model.ErrInvalidPrice},
		{"post price NaN", []string{"POST", "products", "Shirt", "NaN", "Clothing"}, model.ErrInvalidPrice},
		{"post price zero", []string{"POST", "products", "Shirt", "0", "Clothing"}, model.ErrInvalidPrice},
		{"post price negative", []string{"POST", "products", "Shirt", "-5", "Clothing"}, model.ErrInvalidPrice},
		{"delete collection", []string{"DELETE", "products"}, model.ErrInvalidCommand},
		{"delete non numeric id", []string{"DELETE", "products/x1"}, model.ErrInvalidProductID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.tokens)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want %v", tt.tokens, tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v (%v), want kind %v", tt.tokens, err, model.KindOf(err), tt.want)
			}
		})
	}
}

func TestParseInvariants(t *testing.T) {
	inputs := [][]string{
		{"GET", "products"},
		{"GET", "products/3"},
		{"POST", "products", "Lamp", "12.5", "Home"},
		{"DELETE", "products/9"},
	}

	for _, tokens := range inputs {
		cmd, err := Parse(tokens)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tokens, err)
		}

		hasID := cmd.Operation == OpGetByID || cmd.Operation == OpDelete
		if hasID != (cmd.ProductID > 0) {
			t.Errorf("Parse(%q): ProductID = %d for operation %s", tokens, cmd.ProductID, cmd.Operation)
		}
		if (cmd.Operation == OpCreate) != (cmd.Data != nil) {
			t.Errorf("Parse(%q): Data = %+v for operation %s", tokens, cmd.Data, cmd.Operation)
		}
	}
}
