package commands

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var (
		initialPairs []string
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "watch <graph.json>",
		Short: "Re-solve a graph whenever its file changes",
		Long: `Watch a graph description file and re-solve it on every write, printing
the updated variable values. Useful while iterating on a model. Runs
until interrupted.`,
		Example: `  faulter watch motor_rig.json --initial torque=5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			initial, err := parseInitial(initialPairs)
			if err != nil {
				return err
			}
			eng, metrics, err := newEngine()
			if err != nil {
				return err
			}

			if handler := metrics.Handler(); metricsAddr != "" && handler != nil {
				mux := http.NewServeMux()
				mux.Handle("/metrics", handler)
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						log.Error().Err(err).Msg("Metrics server failed")
					}
				}()
				log.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			}

			solve := func() {
				desc, err := loadDescription(path)
				if err != nil {
					log.Error().Err(err).Msg("Failed to load graph")
					return
				}
				res, err := eng.Run(desc, initial)
				if err != nil {
					log.Error().Err(err).Msg("Solve failed")
					return
				}
				if jsonOutput {
					printJSON(res)
					return
				}
				fmt.Printf("[%s] solved: %d nodes, converged=%v\n",
					time.Now().Format("15:04:05"), res.NodeCount, res.Converged)
				for _, id := range res.ExecutionOrder {
					fmt.Printf("  %s\n", id)
				}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory rather than the file itself: most
			// editors replace the file on save, which drops a watch
			// on the inode.
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if err := watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
			}

			log.Info().Str("path", path).Msg("Watching graph file")
			solve()

			// Debounce bursts of write events from a single save.
			var debounce *time.Timer
			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
						continue
					}
					evAbs, err := filepath.Abs(event.Name)
					if err != nil || evAbs != abs {
						continue
					}
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(200*time.Millisecond, solve)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Warn().Err(err).Msg("Watcher error")
				}
			}
		},
	}

	cmd.Flags().StringSliceVarP(&initialPairs, "initial", "i", nil, "initial variable value (name=value, repeatable)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (e.g. :9090)")

	return cmd
}
