package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"findmyspace/internal/entities"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var formPath string

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List, create, update and delete parking spaces",
}

var spacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		spaces, err := newClient(cfg).ListUserSpaces(cmd.Context(), cfg.UserID)
		if err != nil {
			return err
		}
		printSpaces(spaces)
		return nil
	},
}

var spacesSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search public listings by name or address",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		spaces, err := newClient(cfg).SearchSpaces(cmd.Context(), query)
		if err != nil {
			return err
		}
		printSpaces(spaces)
		return nil
	},
}

var spacesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a space with its schedule and rates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		d, err := newClient(cfg).GetSpace(cmd.Context(), id)
		if err != nil {
			return err
		}
		e := d.Espacio
		fmt.Printf("%s (#%d)\n%s\n", e.Nombre, e.ID, e.Ubicacion)
		fmt.Printf("Tipo: %s  Estructura: %s  Plazas: %d  Pisos: %d  Sótano: %t\n", e.Tipo, e.TipoEstructura, e.Plazas, e.Pisos, e.Sotano)
		for _, h := range d.Horarios {
			for _, f := range h.Franjas {
				fmt.Printf("  %-10s %s - %s\n", h.Dia, f.Apertura, f.Cierre)
			}
		}
		for _, t := range d.Tarifas {
			fmt.Printf("  %-10s %-8s $%.2f\n", t.TipoVehiculo, t.Modalidad, t.Precio)
		}
		return nil
	},
}

var spacesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a space from a YAML form, with a default layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		form, err := readForm(formPath)
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ws.session.Start(form.SpaceAttributes)
		res, err := ws.session.Save(cmd.Context(), form)
		if res != nil {
			fmt.Printf("Space %d created\n", res.SpaceID)
		}
		return err
	},
}

var spacesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a space from a YAML form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form, err := readForm(formPath)
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		if _, err := ws.session.Load(cmd.Context(), id); err != nil {
			return err
		}
		res, err := ws.session.Save(cmd.Context(), form)
		if res == nil {
			return err
		}
		fmt.Printf("Space %d updated\n", res.SpaceID)
		if !res.LayoutSaved && ws.session.Editor().Stale() {
			fmt.Println("The structure changed; run `fmsctl layout regenerate` to rebuild the layout.")
		}
		return err
	},
}

var spacesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a space and its cached layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := ws.client.DeleteSpace(cmd.Context(), id); err != nil {
			return err
		}
		if n, err := ws.store.DeleteBySpaceID(cmd.Context(), id); err != nil {
			logger.Warn("cached layout not removed", zap.Int64("space_id", id), zap.Error(err))
		} else if n > 0 {
			logger.Debug("cached layout removed", zap.Int64("space_id", id), zap.Int64("records", n))
		}
		fmt.Printf("Space %d deleted\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{spacesCreateCmd, spacesUpdateCmd} {
		c.Flags().StringVarP(&formPath, "file", "f", "", "YAML form with the space attributes")
		c.MarkFlagRequired("file")
	}
	spacesCmd.AddCommand(spacesListCmd, spacesSearchCmd, spacesShowCmd, spacesCreateCmd, spacesUpdateCmd, spacesDeleteCmd)
}

func printSpaces(spaces []entities.Space) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tUBICACION\tPLAZAS\tTIPO\tMAPA")
	for _, s := range spaces {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%t\n", s.ID, s.Nombre, s.Ubicacion, s.Plazas, s.Tipo, s.Mapa != nil && s.Mapa.HasContent())
	}
	tw.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
