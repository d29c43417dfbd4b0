package main

import (
	"fmt"
	"os"

	"charm-wallet-connect/config"
	"charm-wallet-connect/metrics"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	env, err := config.FromEnv()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	m := newModel(env)
	if env.MetricsAddr != "" {
		m.metrics = metrics.New()
		if _, err := m.metrics.Serve(env.MetricsAddr); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
	}
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	m.close()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
