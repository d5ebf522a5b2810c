package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"findmyspace/internal/entities"

	"github.com/spf13/cobra"
)

var vehicleForm entities.VehicleRequest

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Manage your registered vehicles",
}

var vehiclesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		vehicles, err := newClient(cfg).ListVehicles(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tMATRICULA\tTIPO\tMARCA\tMODELO")
		for _, v := range vehicles {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Matricula, v.Tipo, v.Marca, v.Modelo)
		}
		return tw.Flush()
	},
}

var vehiclesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a vehicle",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		vehicleForm.Normalize()
		if err := vehicleForm.Validate(); err != nil {
			return err
		}
		id, err := newClient(cfg).CreateVehicle(cmd.Context(), vehicleForm)
		if err != nil {
			return err
		}
		fmt.Printf("Vehicle %d registered\n", id)
		return nil
	},
}

var vehiclesRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return newClient(cfg).DeleteVehicle(cmd.Context(), id)
	},
}

var vehiclesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the known vehicle types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := newClient(cfg).ListVehicleTypes(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range types {
			fmt.Println(t)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics of your spaces and vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		s, err := newClient(cfg).GetStatistics(cmd.Context(), cfg.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("Espacios: %d (%d públicos, %d privados)\n", s.Espacios, s.Publicos, s.Privados)
		fmt.Printf("Plazas totales: %d\n", s.PlazasTotales)
		fmt.Printf("Aire libre: %d  Cubiertos: %d  Con mapa: %d\n", s.AireLibre, s.Cubiertos, s.ConMapa)
		fmt.Printf("Vehículos: %d\n", s.Vehiculos)
		types := make([]string, 0, len(s.PrecioPromedio))
		for t := range s.PrecioPromedio {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  Precio promedio %-10s $%.2f\n", t, s.PrecioPromedio[t])
		}
		return nil
	},
}

func init() {
	f := vehiclesAddCmd.Flags()
	f.StringVar(&vehicleForm.Matricula, "matricula", "", "license plate")
	f.StringVar(&vehicleForm.Tipo, "tipo", "", "vehicle type")
	f.StringVar(&vehicleForm.Marca, "marca", "", "brand")
	f.StringVar(&vehicleForm.Modelo, "modelo", "", "model")
	vehiclesAddCmd.MarkFlagRequired("matricula")
	vehiclesAddCmd.MarkFlagRequired("tipo")

	vehiclesCmd.AddCommand(vehiclesListCmd, vehiclesAddCmd, vehiclesRemoveCmd, vehiclesTypesCmd)
}
