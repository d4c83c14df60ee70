package render

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out   io.Writer
	title cases.Caser
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{
		out:   out,
		title: cases.Title(language.English),
	}
}

// Render prints one line per target followed by a summary
func (r *VerifyRenderer) Render(result *usecase.VerifyVaultResult) error {
	network := result.Network
	sectionHeaderStyle.Fprintf(r.out, "%s verification on %s (chain %d)\n",
		r.title.String(string(network.Verifier)), network.Name, network.ChainID)

	attempted := 0
	for _, target := range result.Targets {
		name := r.title.String(target.Target)
		switch {
		case target.Skipped:
			skippedStyle.Fprintf(r.out, "  ⏭️  %s %s skipped after earlier failure\n", name, target.Address.Hex())
			continue
		case target.Error != nil:
			attempted++
			notVerifiedStyle.Fprintf(r.out, "  ✗ %s %s: %v\n", name, target.Address.Hex(), target.Error)
			continue
		}

		attempted++
		verifiedStyle.Fprintf(r.out, "  ✓ %s %s %s\n", name, target.Address.Hex(), r.statusText(target.Outcome))
		if target.Outcome != nil && target.Outcome.URL != "" {
			fmt.Fprintf(r.out, "    %s\n", linkStyle.Sprint(target.Outcome.URL))
		}
	}

	fmt.Fprintf(r.out, "\nVerification complete: %d/%d successful\n", result.Succeeded(), attempted)
	return nil
}

func (r *VerifyRenderer) statusText(outcome *models.VerificationOutcome) string {
	if outcome == nil {
		return ""
	}
	switch outcome.Status {
	case models.VerificationStatusAlready:
		return "(already verified)"
	case models.VerificationStatusVerified:
		return "(verified)"
	default:
		return ""
	}
}

var _ Renderer[*usecase.VerifyVaultResult] = (*VerifyRenderer)(nil)
