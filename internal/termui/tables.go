package termui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/tree"
)

// RenderContests prints contest nodes as a table.
func RenderContests(out io.Writer, nodes []*tree.Node) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Title", "Start", "End", "Owner"})
	for _, n := range nodes {
		c := n.Contest
		t.AppendRow(table.Row{
			c.ID,
			n.Label,
			c.Begin.Format("2006-01-02 15:04"),
			c.End.Format("2006-01-02 15:04"),
			c.ManagerName,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// RenderProblems prints problem nodes as a table, the solved column
// coloured grey, red or green.
func RenderProblems(out io.Writer, nodes []*tree.Node) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Problem", "Source", "Solved", "Desc", "Properties"})
	for _, n := range nodes {
		p := n.Problem
		t.AppendRow(table.Row{
			n.Label,
			p.OJ + " - " + p.ProbNum,
			n.Solved,
			descRef(p),
			n.Description,
		})
	}
	solvedColor := text.Transformer(func(v interface{}) string {
		s, ok := v.(api.Solved)
		if !ok {
			return ""
		}
		switch s {
		case api.Accepted:
			return text.FgHiGreen.Sprint(s)
		case api.Wrong:
			return text.FgHiRed.Sprint(s)
		default:
			return text.FgHiBlack.Sprint(s)
		}
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name:        "Solved",
			Transformer: solvedColor,
			Align:       text.AlignCenter,
		},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func descRef(p *api.Problem) string {
	return fmt.Sprintf("%d %d", p.DescriptionID, p.DescriptionVersion)
}
