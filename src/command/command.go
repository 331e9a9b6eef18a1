// Package command turns terminal tokens into a catalog command
package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/apimgr/catalog/src/model"
)

// Method is the HTTP verb named on the command line
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

// Operation is the catalog operation a command resolves to
type Operation string

const (
	OpGetAll  Operation = "getAll"
	OpGetByID Operation = "getById"
	OpCreate  Operation = "create"
	OpDelete  Operation = "delete"
)

const (
	productsPath   = "products"
	productsPrefix = "products/"

	// DefaultDescription is used when POST is given no description tokens
	DefaultDescription = "No description provided"
)

// Command is the parsed form of one invocation.
// ProductID is set only for getById and delete; Data only for create.
type Command struct {
	Method    Method
	Operation Operation
	ProductID int
	Data      *model.ProductInput
}

// Parse maps raw tokens (invocation prefix already stripped) to a Command.
// Method matching is case-insensitive; path matching is not.
func Parse(tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return Command{}, model.NewError(model.KindInvalidCommand, "expected <METHOD> <path>, got %d argument(s)", len(tokens))
	}

	method := Method(strings.ToUpper(tokens[0]))
	path := tokens[1]
	params := tokens[2:]

	switch method {
	case MethodGet:
		return parseGet(path)
	case MethodPost:
		return parsePost(path, params)
	case MethodDelete:
		return parseDelete(path)
	default:
		return Command{}, model.NewError(model.KindInvalidCommand, "unsupported method %q", tokens[0])
	}
}

func parseGet(path string) (Command, error) {
	if path == productsPath {
		return Command{Method: MethodGet, Operation: OpGetAll}, nil
	}
	if !strings.HasPrefix(path, productsPrefix) {
		return Command{}, model.NewError(model.KindInvalidCommand, "unsupported path %q for GET", path)
	}

	id, err := parseProductID(strings.TrimPrefix(path, productsPrefix))
	if err != nil {
		return Command{}, err
	}
	return Command{Method: MethodGet, Operation: OpGetByID, ProductID: id}, nil
}

func parsePost(path string, params []string) (Command, error) {
	if path != productsPath {
		return Command{}, model.NewError(model.KindInvalidCommand, "unsupported path %q for POST", path)
	}
	if len(params) < 3 {
		return Command{}, model.NewError(model.KindMissingParameters, "POST products needs <title> <price> <category>, got %d value(s)", len(params))
	}

	title, rawPrice, category := params[0], params[1], params[2]
	if title == "" || category == "" {
		return Command{}, model.NewError(model.KindMissingParameters, "title and category must not be empty")
	}

	price, err := parsePrice(rawPrice)
	if err != nil {
		return Command{}, err
	}

	description := strings.Join(params[3:], " ")
	if description == "" {
		description = DefaultDescription
	}

	return Command{
		Method:    MethodPost,
		Operation: OpCreate,
		Data: &model.ProductInput{
			Title:       title,
			Price:       price,
			Category:    category,
			Description: description,
		},
	}, nil
}

func parseDelete(path string) (Command, error) {
	if !strings.HasPrefix(path, productsPrefix) {
		return Command{}, model.NewError(model.KindInvalidCommand, "unsupported path %q for DELETE", path)
	}

	id, err := parseProductID(strings.TrimPrefix(path, productsPrefix))
	if err != nil {
		return Command{}, err
	}
	return Command{Method: MethodDelete, Operation: OpDelete, ProductID: id}, nil
}

// parseProductID reads the leading run of decimal digits and ignores the
// rest, so "12abc" yields 12. This matches how the id segment has always
// been read and is kept on purpose.
func parseProductID(segment string) (int, error) {
	end := 0
	for end < len(segment) && segment[end] >= '0' && segment[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, model.NewError(model.KindInvalidProductID, "product id %q is not a number", segment)
	}

	id, err := strconv.Atoi(segment[:end])
	if err != nil {
		return 0, model.WrapError(model.KindInvalidProductID, err, "product id out of range")
	}
	if id <= 0 {
		return 0, model.NewError(model.KindInvalidProductID, "product id must be positive, got %d", id)
	}
	return id, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, model.NewError(model.KindInvalidPrice, "price %q is not a number", raw)
	}
	if price <= 0 {
		return 0, model.NewError(model.KindInvalidPrice, "price must be positive, got %s", raw)
	}
	return price, nil
}
