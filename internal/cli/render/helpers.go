// Package render formats use case results for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	addressStyle  = color.New(color.FgWhite)
	faintStyle    = color.New(color.Faint)
	verifiedStyle = color.New(color.FgGreen)
	expiredStyle  = color.New(color.FgRed)
	pendingStyle  = color.New(color.FgYellow)
	labelStyle    = color.New(color.FgCyan)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// RenderJSON writes v as indented JSON
func RenderJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ShortAddress abbreviates an address as 0x1234…abcd
func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// newTable creates a borderless table in the house style
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box.PaddingRight = "   "
	return t
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func section(out io.Writer, title string) {
	fmt.Fprintln(out, headerStyle.Sprint(title))
}
