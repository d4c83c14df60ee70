package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

// DeploymentsRenderer renders recorded deployments as a table
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments newest first
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable(6)
	t.AppendHeader(table.Row{"Created", "Network", "Proxy", "Implementation", "Fee recipient", "Proxy tx"})
	t.AppendRows(lo.Map(result.Deployments, func(d *models.DeploymentRecord, _ int) table.Row {
		return table.Row{
			d.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			d.Network,
			addressStyle.Sprint(d.Proxy),
			d.Implementation,
			d.FeeRecipient,
			hashStyle.Sprint(shortHash(d.ProxyTxHash)),
		}
	}))
	fmt.Fprintln(r.out, t.Render())

	networks := lo.Keys(result.ByNetwork)
	sort.Strings(networks)
	counts := lo.Map(networks, func(name string, _ int) string {
		return fmt.Sprintf("%s: %d", name, result.ByNetwork[name])
	})
	fmt.Fprintf(r.out, "\n%d deployment(s) (%s)\n", len(result.Deployments), strings.Join(counts, ", "))
	fmt.Fprintf(r.out, "📁 registry: %s\n", getRelativePath(result.RegistryPath))
	return nil
}
