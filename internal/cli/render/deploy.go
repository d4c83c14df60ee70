package render

import (
	"fmt"
	"io"

	"github.com/upcade/vaultctl/internal/usecase"
)

// DeployRenderer renders the result of a Vault deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints both contract addresses, implementation first
func (r *DeployRenderer) Render(result *usecase.DeployVaultResult) error {
	network := result.Network

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Vault deployed on %s (chain %d)", network.Name, network.ChainID)))
	fmt.Fprintln(r.out)

	r.row("Deployer", addressStyle.Sprint(result.Deployer.Hex()))
	r.row("Fee recipient", addressStyle.Sprint(result.FeeRecipient.Hex()))
	r.row("Implementation", fmt.Sprintf("%s  %s",
		addressStyle.Sprint(result.Implementation.Address.Hex()),
		hashStyle.Sprintf("tx %s", result.Implementation.TxHash.Hex())))
	r.row("Proxy", fmt.Sprintf("%s  %s",
		addressStyle.Sprint(result.Proxy.Address.Hex()),
		hashStyle.Sprintf("tx %s", result.Proxy.TxHash.Hex())))
	if link := network.AddressURL(result.Proxy.Address.Hex()); link != "" {
		r.row("Explorer", linkStyle.Sprint(link))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "VAULT=%s\n", result.Proxy.Address.Hex())
	fmt.Fprintf(r.out, "VAULT_IMPLEMENTATION_ADDRESS=%s\n", result.Implementation.Address.Hex())
	fmt.Fprintf(r.out, "VAULT_PROXY_ADDRESS=%s\n", result.Proxy.Address.Hex())

	if result.RegistryError != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Deployment not recorded locally: %v", result.RegistryError)))
	}
	return nil
}

func (r *DeployRenderer) row(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-15s", label+":"), value)
}

var _ Renderer[*usecase.DeployVaultResult] = (*DeployRenderer)(nil)
