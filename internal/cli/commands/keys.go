package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/pkg/value"
)

type keyRow struct {
	Index    int         `json:"index"`
	Time     string      `json:"time"`
	Value    value.Value `json:"value"`
	Type     string      `json:"type"`
	Affected string      `json:"affected"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <sheet> <node.input>",
		Short: "List an input's keyframes",
		Long: `List the keyframes of an input in time order, with the time range each
keyframe influences.`,
		Example: `  leapanim keys comp.yaml title.opacity`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			ids := in.Keyframes()
			rows := make([]keyRow, 0, len(ids))
			for i, id := range ids {
				k, _ := in.Keyframe(id)
				affected, _ := in.RangeAffectedByKeyframe(id)
				rows = append(rows, keyRow{
					Index:    i,
					Time:     k.Time.String(),
					Value:    k.Value,
					Type:     k.Type.String(),
					Affected: affected.String(),
				})
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(w, map[string]any{
					"input":      in.String(),
					"keyframing": in.IsKeyframing(),
					"standard":   in.StandardValue(),
					"keyframes":  rows,
				})
			}

			tbl := newTable(w, "#", "Time", "Value", "Type", "Affects")
			for _, r := range rows {
				tbl.AppendRow(table.Row{r.Index, r.Time, r.Value.String(), r.Type, r.Affected})
			}
			tbl.SetCaption("%s: keyframing=%t standard=%s", in, in.IsKeyframing(), in.StandardValue())
			tbl.Render()
			return nil
		},
	}
}
