package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/handler"
	"github.com/suar-net/starter-be/internal/repository"
	"github.com/suar-net/starter-be/internal/service"
)

func newRoutesCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnvironment(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			// The table only depends on the route tree, so no database is opened.
			router := handler.SetupRouter(handler.Dependencies{
				Config:      cfg,
				ItemService: service.NewItemService(repository.NewRepository(nil).Item()),
				Logger:      zap.NewNop(),
			})
			return printRoutes(cmd.OutOrStdout(), router)
		},
	}
}

func printRoutes(out io.Writer, routes chi.Routes) error {
	type row struct{ method, route string }
	var rows []row

	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		rows = append(rows, row{method: method, route: route})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk routes: %w", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].route != rows[j].route {
			return rows[i].route < rows[j].route
		}
		return rows[i].method < rows[j].method
	})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tROUTE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.method, r.route)
	}
	return tw.Flush()
}
