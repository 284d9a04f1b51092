package calculator

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"sales-ams/pkg/aggregate"
	"sales-ams/pkg/filter"
	"sales-ams/pkg/models"
	"sales-ams/pkg/period"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Result regroupe les sorties d'une exécution. Valeur immuable transmise par l'appelant
// d'un écran à l'autre ; le calculateur ne garde aucun état.
type Result struct {
	RunID     string
	Config    models.Config
	Reference models.Period // période de référence de la fenêtre AMS
	Records   []models.Record
	Skipped   []models.SkippedRecord
	Series    map[models.DimensionKey]models.TimeSeries
	AMS       []models.AMSResult // triés par DimensionKey
	Targets   []models.TargetResult
}

// Run : normalisation → filtre → agrégation → AMS → cible.
// Les lignes illisibles sont reportées dans Result.Skipped ; seule l'absence totale de période
// valide est une erreur (models.ErrNoValidPeriods). Un filtre sans correspondance donne un
// résultat vide.
func Run(ctx context.Context, raw []models.RawRecord, cfg models.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	res := &Result{RunID: uuid.NewString(), Config: cfg}

	records, skipped, err := Prepare(raw, cfg.Selection)
	res.Skipped = skipped
	if len(skipped) > 0 {
		log.Printf("[WARN] run=%s %d ligne(s) écartée(s) sur %d", res.RunID, len(skipped), len(raw))
	}
	if err != nil {
		return res, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	res.Records = records
	if cfg.Verbose {
		log.Printf("[INFO] run=%s records=%d skipped=%d", res.RunID, len(res.Records), len(skipped))
	}
	if len(res.Records) == 0 {
		res.Series = map[models.DimensionKey]models.TimeSeries{}
		return res, nil
	}

	res.Reference = Reference(res.Records, cfg)
	res.Series = aggregate.BySeries(res.Records)

	ams, targets, err := Compute(ctx, res.Series, res.Reference, cfg)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	res.AMS = ams
	res.Targets = targets
	return res, nil
}

// Prepare normalise puis filtre les lignes brutes. Seule l'absence totale de période valide
// (avant filtrage) est une erreur ; un filtre sans correspondance retourne une liste vide.
func Prepare(raw []models.RawRecord, sel models.Selection) ([]models.Record, []models.SkippedRecord, error) {
	records, skipped := aggregate.Normalize(raw, period.New())
	if len(records) == 0 {
		return nil, skipped, models.ErrNoValidPeriods
	}
	return filter.Records(records, sel), skipped, nil
}

// Reference choisit la période de référence : AsOf si demandé, sinon le max du jeu filtré.
func Reference(records []models.Record, cfg models.Config) models.Period {
	if cfg.Anchor == models.AnchorAsOf {
		return cfg.AsOf
	}
	_, last, _ := aggregate.Bounds(records)
	return last
}

// Compute calcule AMS et cible pour chaque série, en parallèle par DimensionKey.
// Chaque worker écrit dans sa propre case : pas de verrou, ordre de fin indifférent.
func Compute(ctx context.Context, series map[models.DimensionKey]models.TimeSeries, ref models.Period, cfg models.Config) ([]models.AMSResult, []models.TargetResult, error) {
	keys := aggregate.SortedKeys(series)
	params := AMSParams{WindowMonths: cfg.WindowMonths, ExclusionPercent: cfg.ExclusionPercent}

	ams := make([]models.AMSResult, len(keys))
	targets := make([]models.TargetResult, len(keys))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bar := newBar(len(keys), cfg.Verbose)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, k := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ams[i] = ComputeAMS(series[k], ref, params)
			targets[i] = ComputeTarget(ams[i], cfg.PercentIncrease)
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	_ = bar.Finish()

	if cfg.Verbose {
		var excluded, short int
		for _, r := range ams {
			excluded += r.MonthsExcluded
			if r.InsufficientHistory {
				short++
			}
		}
		log.Printf("[INFO] ref=%s keys=%d mois exclus=%d historiques courts=%d", ref, len(keys), excluded, short)
	}
	return ams, targets, nil
}

func newBar(n int, verbose bool) *progressbar.ProgressBar {
	if !verbose {
		return progressbar.DefaultSilent(int64(n), "ams")
	}
	return progressbar.Default(int64(n), "ams")
}
