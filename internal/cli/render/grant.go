package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/upcade/vaultctl/internal/usecase"
)

// GrantRenderer renders the result of a role grant
type GrantRenderer struct {
	out io.Writer
}

// NewGrantRenderer creates a new grant renderer
func NewGrantRenderer(out io.Writer) *GrantRenderer {
	return &GrantRenderer{out: out}
}

// Render prints the vault address and the grant transaction
func (r *GrantRenderer) Render(result *usecase.GrantRoleResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Granted %s to %s on %s",
		result.RoleGetter, result.Manager.Hex(), result.Network.Name)))
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Role id        :"), hashStyle.Sprint(hexutil.Encode(result.Role[:])))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Vault contract :"), addressStyle.Sprint(result.Vault))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Transaction tx :"), result.TxHash.Hex())
	if result.Receipt != nil {
		fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprint("Block          :"), result.Receipt.BlockNumber)
	}
	if link := result.Network.TxURL(result.TxHash.Hex()); link != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Explorer       :"), linkStyle.Sprint(link))
	}
	return nil
}

var _ Renderer[*usecase.GrantRoleResult] = (*GrantRenderer)(nil)
