package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	// Out and ErrOut default to os.Stdout and os.Stderr at write time
	Out    io.Writer
	ErrOut io.Writer
}

// Quieter is implemented by results that have a one-line quiet form
type Quieter interface {
	QuietValue() string
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	return f.SuccessWith(data, nil)
}

// SuccessWith is Success with a custom human renderer. A nil human falls
// back to a plain dump of data.
func (f *OutputFormatter) SuccessWith(data any, human func(w io.Writer) error) error {
	w := f.stdout()
	if f.Quiet {
		switch v := data.(type) {
		case Quieter:
			_, err := fmt.Fprintln(w, v.QuietValue())
			return err
		case interface{ GetID() int }:
			_, err := fmt.Fprintf(w, "%d\n", v.GetID())
			return err
		}
		return nil
	}

	if f.JSON {
		return json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if human != nil {
		return human(w)
	}
	return f.prettyPrint(w, data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.stdout()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	w := f.stderr()
	fmt.Fprintf(w, "%s %s\n", styles.ErrorStyle.Render("Error"), message)
	if suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", styles.SubtitleStyle.Render("Suggestion:"), suggestion)
	}
	return nil
}

// Fail prints the error and returns it wrapped with the exit code
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	if fmtErr := f.Error(code, err.Error()); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error formatting error message: %v\n", fmtErr)
	}
	return Exit(exitCode, err)
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(w io.Writer, data any) error {
	_, err := fmt.Fprintf(w, "%+v\n", data)
	return err
}

func (f *OutputFormatter) stdout() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

func (f *OutputFormatter) stderr() io.Writer {
	if f.ErrOut != nil {
		return f.ErrOut
	}
	return os.Stderr
}
