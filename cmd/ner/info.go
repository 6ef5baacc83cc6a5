package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report configured backends and their availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController()
			if err != nil {
				return err
			}

			for _, info := range ctrl.Backends() {
				status := "available"
				if !info.Available {
					status = "unavailable"
					if info.Error != "" {
						status += " (" + info.Error + ")"
					}
				}

				marker := " "
				if info.Name == ctrl.DefaultBackend() {
					marker = "*"
				}

				if info.Model != "" {
					fmt.Printf("%s %-6s %s [%s]\n", marker, info.Name, status, info.Model)
				} else {
					fmt.Printf("%s %-6s %s\n", marker, info.Name, status)
				}
			}
			return nil
		},
	}
}
