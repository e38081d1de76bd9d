package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-prospect/internal/config"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/queue"
	"github.com/xavierca1/ligue-prospect/internal/infra/store"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

// openLeadStore and openProducer are swapped in tests.
var (
	openLeadStore = func(ctx context.Context) (entity.LeadRepositoryInterface, func() error, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		stores, err := store.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return stores.Leads, stores.Close, nil
	}

	openProducer = func() (queue.QueueProducerInterface, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if cfg.RabbitMQURL == "" {
			return nil, nil, errors.New("RABBITMQ_URL é obrigatório com --queue")
		}
		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, err
		}
		return queue.NewProducer(mq.Ch), mq.Close, nil
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Operações de manutenção da base de leads",
		Long: `leadctl roda importações, backups e migrações direto no store
configurado em STORE_DRIVER, sem passar pela API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newExportCmd(), newMigrateCmd(), newStatsCmd())
	return root
}

func ownerFlag(cmd *cobra.Command) (entity.Principal, error) {
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		return entity.Principal{}, errors.New("--owner is required")
	}
	return entity.Principal{ID: owner}, nil
}

// --- import ---

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Importa um CSV do scraper para um dono",
		Long: `Importa um CSV do scraper para um dono.

Examples:
  leadctl import --owner 7f3c... --territory "São Paulo" leads.csv
  leadctl import --owner 7f3c... --territory "São Paulo" --queue leads.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			territory, _ := cmd.Flags().GetString("territory")
			viaQueue, _ := cmd.Flags().GetBool("queue")

			candidates, err := readCandidates(args[0], territory)
			if err != nil {
				return err
			}

			if viaQueue {
				producer, closeMQ, err := openProducer()
				if err != nil {
					return err
				}
				defer closeMQ()
				return publishImport(cmd.Context(), producer, p, territory, candidates, cmd.OutOrStdout())
			}

			leads, closeStore, err := openLeadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			return runImport(cmd.Context(), leads, p, territory, candidates, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("owner", "", "id do dono dos leads")
	cmd.Flags().String("territory", "", "território aplicado a todas as linhas")
	cmd.Flags().Bool("queue", false, "publica no RabbitMQ em vez de gravar direto")
	return cmd
}

// readCandidates applies the same boundary checks as the upload endpoint.
func readCandidates(path, territory string) ([]entity.LeadInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if err := usecase.CheckUpload(filepath.Base(path), info.Size(), territory); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()
	return usecase.ParseLeadsCSV(f)
}

func runImport(ctx context.Context, repo entity.LeadRepositoryInterface, p entity.Principal, territory string, candidates []entity.LeadInput, out io.Writer) error {
	uc := usecase.NewImportLeadsUseCase(repo, nil)
	n, err := uc.Execute(ctx, p, usecase.ImportLeadsInput{
		Territory:  territory,
		Candidates: candidates,
		Channel:    usecase.ChannelCLI,
		OnProgress: func(pct int) { fmt.Fprintf(out, "  %3d%%\n", pct) },
	})
	if err != nil {
		var partial *usecase.PartialImportError
		if errors.As(err, &partial) {
			fmt.Fprintf(out, "✗ importação parcial: %d gravados antes da falha\n", partial.Committed)
		}
		return err
	}
	fmt.Fprintf(out, "✓ %d leads importados de %d linhas\n", n, len(candidates))
	return nil
}

// publishImport splits the candidates in import-sized messages so one bad
// group dead-letters alone.
func publishImport(ctx context.Context, producer queue.QueueProducerInterface, p entity.Principal, territory string, candidates []entity.LeadInput, out io.Writer) error {
	published := 0
	for start := 0; start < len(candidates); start += usecase.ImportBatchSize {
		end := min(start+usecase.ImportBatchSize, len(candidates))
		msg := queue.ImportBatchMessage{
			OwnerID:   p.ID,
			Territory: territory,
			Leads:     candidates[start:end],
		}
		if err := producer.PublishImportBatch(ctx, msg); err != nil {
			return err
		}
		published++
	}
	fmt.Fprintf(out, "✓ %d linhas enviadas em %d mensagens\n", len(candidates), published)
	return nil
}

// --- export ---

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Salva o backup JSON dos leads de um dono",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				path = usecase.BackupFilename(time.Now())
			}

			leads, closeStore, err := openLeadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()

			n, err := runExport(cmd.Context(), leads, p, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d leads salvos em %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "id do dono dos leads")
	cmd.Flags().String("out", "", "arquivo de saída (padrão leads_backup_AAAA-MM-DD.json)")
	return cmd
}

func runExport(ctx context.Context, repo entity.LeadRepositoryInterface, p entity.Principal, w io.Writer) (int, error) {
	leads, err := usecase.NewLeadService(repo, nil).Export(ctx, p)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return 0, fmt.Errorf("encoding backup: %w", err)
	}
	return len(leads), nil
}

// --- migrate ---

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Atribui os leads sem dono a um usuário sem leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			leads, closeStore, err := openLeadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := usecase.NewMigrateOrphansUseCase(leads, nil).Execute(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d leads migrados para %s\n", n, p.ID)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "id do usuário que recebe os leads")
	return cmd
}

// --- stats ---

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Mostra o funil de um dono",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			territory, _ := cmd.Flags().GetString("territory")

			leads, closeStore, err := openLeadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := usecase.NewLeadService(leads, nil).Stats(cmd.Context(), p, entity.TerritoryFilter(territory))
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "id do dono dos leads")
	cmd.Flags().String("territory", "", `território ("all" ou vazio para todos)`)
	return cmd
}

func printStats(w io.Writer, s entity.Stats) {
	for _, stage := range entity.Stages() {
		fmt.Fprintf(w, "%-22s %d\n", stage.Title(), s.ByStage[stage])
	}
	fmt.Fprintf(w, "%-22s %d\n", "Total", s.Total)
	fmt.Fprintf(w, "%-22s %s%%\n", "Conversão", s.ConversionRate)
}
