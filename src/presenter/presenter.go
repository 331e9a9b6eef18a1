// Package presenter renders catalog results and failures for the terminal
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/apimgr/catalog/src/model"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// DefaultRuleWidth is the width of the separator rules
const DefaultRuleWidth = 80

// ParseFormat validates an --output value. Empty means table.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use %s or %s)", s, FormatTable, FormatJSON)
	}
}

// NotApplicable is printed for a missing rating
const NotApplicable = "N/A"

// Options controls how a Presenter writes
type Options struct {
	// Format is FormatTable or FormatJSON; anything else means table
	Format string
	// Color enables lipgloss styling
	Color bool
	// Program is the binary name shown in usage examples
	Program string
	// RuleWidth narrows separator rules on small terminals; values
	// outside 1..DefaultRuleWidth mean DefaultRuleWidth
	RuleWidth int
}

// Presenter writes everything the CLI prints
type Presenter struct {
	out       io.Writer
	format    string
	program   string
	ruleWidth int

	header  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// New creates a Presenter writing to out
func New(out io.Writer, opts Options) *Presenter {
	r := lipgloss.NewRenderer(out)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
	}

	format := opts.Format
	if format != FormatJSON {
		format = FormatTable
	}
	program := opts.Program
	if program == "" {
		program = "catalog"
	}
	width := opts.RuleWidth
	if width <= 0 || width > DefaultRuleWidth {
		width = DefaultRuleWidth
	}

	return &Presenter{
		out:       out,
		format:    format,
		program:   program,
		ruleWidth: width,
		header:    r.NewStyle().Foreground(lipgloss.Color("#bd93f9")).Bold(true),
		success:   r.NewStyle().Foreground(lipgloss.Color("#50fa7b")),
		failure:   r.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true),
		muted:     r.NewStyle().Foreground(lipgloss.Color("#6272a4")),
	}
}

// IsJSON reports whether output is machine readable
func (p *Presenter) IsJSON() bool {
	return p.format == FormatJSON
}

// Progress prints a status line before a request. Suppressed for JSON.
func (p *Presenter) Progress(format string, args ...any) {
	if p.IsJSON() {
		return
	}
	fmt.Fprintf(p.out, format+"\n\n", args...)
}

// ProductList prints a numbered list followed by the total count
func (p *Presenter) ProductList(products []model.Product) error {
	if p.IsJSON() {
		return p.encode(products)
	}

	var sb strings.Builder
	sb.WriteString(p.header.Render("PRODUCT LIST") + "\n")
	sb.WriteString(p.rule("=") + "\n")
	for i, product := range products {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, product.Title))
		sb.WriteString(fmt.Sprintf("Price: $%s | Category: %s\n", FormatPrice(product.Price), product.Category))
		sb.WriteString(fmt.Sprintf("ID: %d | Rating: %s\n", product.ID, FormatRate(product)))
		sb.WriteString(p.muted.Render(p.rule("-")) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nTotal products: %d\n\n", len(products)))

	_, err := io.WriteString(p.out, sb.String())
	return err
}

// ProductDetail prints a labeled block for one product
func (p *Presenter) ProductDetail(product model.Product) error {
	if p.IsJSON() {
		return p.encode(product)
	}
	_, err := io.WriteString(p.out, p.detail(product))
	return err
}

// Created prints the confirmation and the product the service returned
func (p *Presenter) Created(product model.Product) error {
	if p.IsJSON() {
		return p.encode(product)
	}
	fmt.Fprintln(p.out, p.success.Render("Product created successfully"))
	_, err := io.WriteString(p.out, p.detail(product))
	return err
}

// Deleted prints the confirmation and the deleted product payload
func (p *Presenter) Deleted(product model.Product) error {
	if p.IsJSON() {
		return p.encode(product)
	}
	fmt.Fprintln(p.out, p.success.Render("Product deleted successfully"))
	_, err := io.WriteString(p.out, p.detail(product))
	return err
}

// Done prints the closing line of a successful table run
func (p *Presenter) Done() {
	if p.IsJSON() {
		return
	}
	fmt.Fprintln(p.out, "\n"+p.success.Render("Operation completed successfully."))
}

func (p *Presenter) detail(product model.Product) string {
	var sb strings.Builder
	sb.WriteString(p.header.Render("PRODUCT DETAIL") + "\n")
	sb.WriteString(p.rule("=") + "\n")
	sb.WriteString(fmt.Sprintf("ID: %d\n", product.ID))
	sb.WriteString(fmt.Sprintf("Title: %s\n", product.Title))
	sb.WriteString(fmt.Sprintf("Price: $%s\n", FormatPrice(product.Price)))
	sb.WriteString(fmt.Sprintf("Category: %s\n", product.Category))
	sb.WriteString(fmt.Sprintf("Description: %s\n", product.Description))
	sb.WriteString(fmt.Sprintf("Rating: %s (%d reviews)\n", FormatRate(product), product.RatingCount()))
	sb.WriteString(p.rule("=") + "\n")
	return sb.String()
}

// Error prints a message for err according to its kind. productID is used
// in the not-found message and may be 0.
func (p *Presenter) Error(err error, productID int) {
	kind := model.KindOf(err)

	if p.IsJSON() {
		p.encode(map[string]string{
			"error":   kind.Code(),
			"message": err.Error(),
		})
		return
	}

	var lines []string
	usage := false
	switch kind {
	case model.KindInvalidCommand:
		lines = append(lines, "Invalid command. Use: GET, POST or DELETE")
		usage = true
	case model.KindMissingParameters:
		lines = append(lines,
			"Missing required parameters",
			"POST products requires: <title> <price> <category> [description]")
		usage = true
	case model.KindInvalidProductID:
		lines = append(lines, "Invalid product ID. It must be a number.")
	case model.KindInvalidPrice:
		lines = append(lines, "Invalid price. It must be a positive number.")
	case model.KindNotFound:
		if productID > 0 {
			lines = append(lines, fmt.Sprintf("Product with ID %d not found.", productID))
		} else {
			lines = append(lines, "Product not found.")
		}
	case model.KindAPIError:
		lines = append(lines, fmt.Sprintf("API error: %s", err.Error()))
	default:
		lines = append(lines, fmt.Sprintf("Error: %s", err.Error()))
	}

	fmt.Fprintln(p.out, p.failure.Render(lines[0]))
	for _, line := range lines[1:] {
		fmt.Fprintln(p.out, line)
	}
	if kind == model.KindInvalidCommand || kind == model.KindMissingParameters {
		fmt.Fprintln(p.out, "Details:", err.Error())
	}
	if usage {
		p.Usage()
	}
}

// Usage prints the four supported invocation shapes
func (p *Presenter) Usage() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.header.Render("USAGE:"))
	fmt.Fprintf(p.out, "  %s GET products\n", p.program)
	fmt.Fprintf(p.out, "  %s GET products/<id>\n", p.program)
	fmt.Fprintf(p.out, "  %s POST products \"<title>\" <price> \"<category>\" [description]\n", p.program)
	fmt.Fprintf(p.out, "  %s DELETE products/<id>\n", p.program)
}

func (p *Presenter) encode(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Presenter) rule(ch string) string {
	return strings.Repeat(ch, p.ruleWidth)
}

// FormatPrice prints a price with the shortest exact decimal form
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// FormatRate prints the rating rate or NotApplicable
func FormatRate(product model.Product) string {
	rate, ok := product.RatingRate()
	if !ok {
		return NotApplicable
	}
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
