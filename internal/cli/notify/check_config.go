package notify

import (
	"errors"
	"fmt"
	"io"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/spf13/cobra"
)

// CheckConfigCmd returns the notify check-config subcommand
func CheckConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Check the SMTP settings",
		Long:  "Report on the mail settings. Exits with status 5 when a required setting is missing.",
		Args:  cobra.NoArgs,
		RunE:  runCheckConfig,
	}

	addOutputFlags(cmd)

	return cmd
}

type configReport struct {
	Valid    bool             `json:"valid"`
	Findings []config.Finding `json:"findings"`
}

func (r configReport) QuietValue() string {
	if r.Valid {
		return "valid"
	}
	return "invalid"
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	formatter := formatterFor(cmd)

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	findings, valid := cliInstance.App.Config.Mail.Check()
	report := configReport{Valid: valid, Findings: findings}

	err = formatter.SuccessWith(report, func(w io.Writer) error {
		fmt.Fprintln(w, styles.SectionStyle.Render("Email configuration"))
		for _, f := range findings {
			fmt.Fprintf(w, "  %s %s\n", findingMark(f.Level), styles.Field(f.Field, f.Message))
		}
		if valid {
			fmt.Fprintf(w, "\n%s\n", styles.SuccessStyle.Render("Email configuration looks valid"))
		} else {
			fmt.Fprintf(w, "\n%s\n", styles.ErrorStyle.Render("Email configuration is incomplete"))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !valid {
		return cli.Exit(cli.ExitValidation, errors.New("mail configuration is incomplete"))
	}
	return nil
}

func findingMark(level string) string {
	switch level {
	case config.FindingOK:
		return styles.Mark(true)
	case config.FindingError:
		return styles.Mark(false)
	case config.FindingWarn:
		return styles.WarningStyle.Render("!")
	default:
		return styles.SubtitleStyle.Render("i")
	}
}
