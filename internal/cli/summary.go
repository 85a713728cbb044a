package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Clark-Hu/genre-dashboard/internal/config"
	"github.com/Clark-Hu/genre-dashboard/internal/domain"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
)

func newSummaryCmd(v *viper.Viper) *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "print the year x genre statistics table",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := domain.ParseYearSelector(year)
			if err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runSummary(cmd.Context(), cmd.OutOrStdout(), cfg, sel)
		},
	}
	cmd.Flags().StringVar(&year, "year", domain.AllYears, "ALL or a release year")
	return cmd
}

func runSummary(ctx context.Context, out io.Writer, cfg config.Config, sel domain.YearSelector) error {
	snap, st, err := loadSnapshot(ctx, cfg, logger.Get())
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := snap.Stats(sel)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tGENRE\tTOTAL\tAVG RATING\tAVG METASCORE\tREVENUE ($M)")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.2f\t%s\n",
			row.Year, row.Genre, row.Total, row.AvgRating, row.AvgMetascore,
			humanize.CommafWithDigits(row.TotalRevenueMillions, 2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s rows for %s\n", humanize.Comma(int64(len(rows))), sel.Label())
	return nil
}
