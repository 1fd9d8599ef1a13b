// Command catalog-api serves the catalog REST API.
//
// @title                      Catalog API
// @version                    1.0
// @description                CRUD API for categories, products, orders, order items, roles and users.
// @BasePath                   /api/v1
// @securityDefinitions.apikey TokenAuth
// @in                         header
// @name                       Authorization
// @description                Authorization: Token <token>
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalog-api",
		Short:        "Catalog and order REST API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	return root
}
