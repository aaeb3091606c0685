package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/manifest"
	"github.com/wippyai/native-bridge/signature"
	"github.com/wippyai/native-bridge/wasmlib"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes reports, styled only when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, styled: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) title(s string) string  { return p.render(titleStyle, s) }
func (p *printer) ok(s string) string     { return p.render(okStyle, s) }
func (p *printer) error(s string) string  { return p.render(errorStyle, s) }
func (p *printer) method(s string) string { return p.render(methodStyle, s) }
func (p *printer) symbol(s string) string { return p.render(symbolStyle, s) }
func (p *printer) dim(s string) string    { return p.render(dimStyle, s) }

// listing prints each declared method with its status: bound, missing
// from the loaded library, or unbound because no library was loaded.
func (p *printer) listing(m *manifest.Manifest, sigs []signature.Signature, reg *dispatch.Registry, lib *wasmlib.Library) {
	fmt.Fprintf(p.w, "%s %s\n\n", p.title(m.ClassName()), p.dim("library "+m.Library))
	for _, sig := range sigs {
		var status string
		switch {
		case reg.Bound(sig):
			status = p.ok("bound")
		case lib != nil && !lib.Has(sig):
			status = p.error("missing")
		default:
			status = p.error("unbound")
		}
		fmt.Fprintf(p.w, "  %-8s %s\n", status, p.method(sig.String()))
		fmt.Fprintf(p.w, "           %s %s\n", p.symbol(sig.Symbol()), p.dim(sig.Descriptor()))
	}
}

func (p *printer) callResult(sig signature.Signature, args []any, result any) {
	fmt.Fprintf(p.w, "%s %s\n", p.title("call"), p.method(sig.String()))
	for i, a := range args {
		if sig.Params[i].IsArray() {
			fmt.Fprintf(p.w, "  arg%d after call: %s\n", i, formatValue(a))
		}
	}
	if sig.Result == signature.Void {
		fmt.Fprintf(p.w, "  %s\n", p.dim("void"))
		return
	}
	fmt.Fprintf(p.w, "  %s %s\n", p.ok("=>"), formatValue(result))
}

func (p *printer) scenario(backend, name string, err error) {
	if err != nil {
		fmt.Fprintf(p.w, "  %s %-6s %-10s %v\n", p.error("FAIL"), backend, name, err)
		return
	}
	fmt.Fprintf(p.w, "  %s   %-6s %s\n", p.ok("ok"), backend, name)
}
