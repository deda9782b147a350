package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/phantom-finance/phantomfin/internal/classifier"
	"github.com/phantom-finance/phantomfin/internal/config"
	"github.com/phantom-finance/phantomfin/internal/llm"
	"github.com/phantom-finance/phantomfin/internal/logger"
	"github.com/phantom-finance/phantomfin/internal/notify"
	"github.com/phantom-finance/phantomfin/internal/session"
	"github.com/phantom-finance/phantomfin/internal/store"
	"github.com/phantom-finance/phantomfin/internal/tui"
)

func main() {
	ctx := context.Background()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Fatalf("mkdir store dir: %v", err)
	}

	zl, closeLog := logger.New(filepath.Dir(cfg.Store.Path))
	defer closeLog()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "export":
			if err := runExport(st, args[1:]); err != nil {
				log.Fatalf("export: %v", err)
			}
			return
		case "import":
			if len(args) < 2 {
				log.Fatal("usage: phantomfin import <file.json>")
			}
			if err := runImport(st, args[1]); err != nil {
				log.Fatalf("import: %v", err)
			}
			return
		case "--demo":
			st.EnterDemoMode()
		default:
			log.Fatalf("unknown argument %q (use --demo, export, or import <file>)", args[0])
		}
	}

	var provider llm.Provider
	if key := config.ResolveAPIKey(cfg); key != "" {
		provider = llm.NewGroqProvider(key, cfg.AI.Model, cfg.AI.BaseURL)
	} else {
		zl.Info().Msg("no API key configured, using offline categorization")
	}
	cl := classifier.New(provider)

	app := tui.New(ctx, cfg, st, nil)
	sess := session.New(st, cl, notify.Multi(app.Notifier(), notify.LogNotifier{Log: zl}))
	app.SetSession(sess)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// runExport writes the document to the named file, or stdout with no args.
func runExport(st *store.Store, args []string) error {
	data, err := st.ExportJSON()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}

func runImport(st *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := st.ImportJSON(data); err != nil {
		return err
	}
	fmt.Printf("imported %s\n", path)
	return nil
}
