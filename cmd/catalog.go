// ABOUTME: Idol and performance catalogue commands
// ABOUTME: Public listings, served from the response cache when enabled

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

var (
	performanceSearch string
	performanceIdol   string
)

var idolsCmd = &cobra.Command{
	Use:   "idols",
	Short: "Browse idols",
}

var idolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List idols",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runIdolsList(ctx, w)
	}),
}

var idolsShowCmd = &cobra.Command{
	Use:   "show <idol-id>",
	Short: "Show one idol",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runIdolShow(ctx, w, args[0])
	}),
}

var performancesCmd = &cobra.Command{
	Use:     "performances",
	Aliases: []string{"shows"},
	Short:   "Browse performances",
}

var performancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List performances",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runPerformancesList(ctx, w, client.PerformanceQuery{
			PageQuery: currentPageQuery(),
			Search:    performanceSearch,
			IdolID:    performanceIdol,
		})
	}),
}

var performancesShowCmd = &cobra.Command{
	Use:   "show <performance-id>",
	Short: "Show one performance with seat availability",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runPerformanceShow(ctx, w, args[0])
	}),
}

func init() {
	addPageFlags(performancesListCmd)
	performancesListCmd.Flags().StringVar(&performanceSearch, "search", "", "Search titles and venues")
	performancesListCmd.Flags().StringVar(&performanceIdol, "idol", "", "Only this idol's performances")

	idolsCmd.AddCommand(idolsListCmd, idolsShowCmd)
	performancesCmd.AddCommand(performancesListCmd, performancesShowCmd)
	rootCmd.AddCommand(idolsCmd, performancesCmd)
}

// runIdolsList lists idols
func runIdolsList(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		idols, err := env.api.ListIdols(ctx)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, idols, func() string {
			if len(idols) == 0 {
				return "No idols."
			}
			rows := make([][]string, 0, len(idols))
			for _, i := range idols {
				rows = append(rows, []string{i.ID, i.Name, orDash(i.Agency)})
			}
			return renderTable([]string{"ID", "Name", "Agency"}, rows)
		})
		return exitOK
	})
}

// runIdolShow prints one idol
func runIdolShow(ctx context.Context, w io.Writer, id string) int {
	return withEnv(w, func(env *appEnv) int {
		idol, err := env.api.GetIdol(ctx, id)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, idol, func() string {
			return fmt.Sprintf(`Name:        %s
Agency:      %s
Description: %s`, idol.Name, orDash(idol.Agency), orDash(idol.Description))
		})
		return exitOK
	})
}

// runPerformancesList lists one page of performances
func runPerformancesList(ctx context.Context, w io.Writer, q client.PerformanceQuery) int {
	return withEnv(w, func(env *appEnv) int {
		page, err := env.api.ListPerformances(ctx, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string {
			if len(page.Content) == 0 {
				return "No performances."
			}
			rows := make([][]string, 0, len(page.Content))
			for _, p := range page.Content {
				rows = append(rows, []string{
					p.ID, p.Title, orDash(p.IdolName), orDash(p.Venue), absTime(p.StartAt),
					won(p.Price), fmt.Sprintf("%d/%d", p.RemainingSeats, p.TotalSeats),
				})
			}
			return renderTable([]string{"ID", "Title", "Idol", "Venue", "Starts", "Price", "Seats"}, rows) + "\n" + pageFooter(page)
		})
		return exitOK
	})
}

// runPerformanceShow prints one performance
func runPerformanceShow(ctx context.Context, w io.Writer, id string) int {
	return withEnv(w, func(env *appEnv) int {
		p, err := env.api.GetPerformance(ctx, id)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, p, func() string {
			return fmt.Sprintf(`Title:   %s
Idol:    %s
Venue:   %s
Starts:  %s (%s)
Ends:    %s
Price:   %s
Seats:   %d of %d left
Status:  %s`,
				p.Title, orDash(p.IdolName), orDash(p.Venue),
				absTime(p.StartAt), relTime(p.StartAt), absTime(p.EndAt),
				won(p.Price), p.RemainingSeats, p.TotalSeats, orDash(p.Status))
		})
		return exitOK
	})
}
