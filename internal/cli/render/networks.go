package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/upcade/vaultctl/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the network descriptors as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	probed := false
	for _, status := range result.Networks {
		probed = probed || status.Probed
	}

	header := table.Row{"", "Network", "Chain ID", "Base chain", "RPC URL", "Verifier", "API key"}
	if probed {
		header = append(header, "Remote")
	}
	t := newTable(len(header))
	t.AppendHeader(header)

	for _, status := range result.Networks {
		marker := ""
		name := status.Name
		if status.Name == result.Selected {
			marker = "*"
			name = selectedStyle.Sprint(name)
		}

		network := status.Network
		if network == nil {
			row := table.Row{marker, name, "", "", "", "", ""}
			if probed {
				row = append(row, "")
			}
			row[4] = notVerifiedStyle.Sprintf("❌ %v", status.Error)
			t.AppendRow(row)
			continue
		}

		apiKey := notVerifiedStyle.Sprint("missing")
		if network.APIKey != "" {
			apiKey = verifiedStyle.Sprint("set")
		}
		row := table.Row{
			marker,
			name,
			strconv.FormatUint(network.ChainID, 10),
			network.BaseChain,
			network.RPCURL,
			string(network.Verifier),
			apiKey,
		}
		if probed {
			row = append(row, r.remote(status))
		}
		t.AppendRow(row)
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *NetworksRenderer) remote(status usecase.NetworkStatus) string {
	switch {
	case !status.Probed:
		return ""
	case status.Error != nil:
		return notVerifiedStyle.Sprintf("❌ %v", status.Error)
	default:
		return verifiedStyle.Sprint("✅ ok")
	}
}
