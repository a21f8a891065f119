package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

const csvSourceName = "csv_history"

// CSVHistoryProvider implements HistoryProvider over a local CSV export.
// Expected columns: date, home_team, away_team, home_goals, away_goals,
// home_xg, away_xg, league, season. The xG columns may be empty.
type CSVHistoryProvider struct {
	path    string
	enabled bool
	logger  *log.Logger
}

// NewCSVHistoryProvider creates a provider reading from the given file
func NewCSVHistoryProvider(path string, enabled bool, logger *log.Logger) *CSVHistoryProvider {
	return &CSVHistoryProvider{path: path, enabled: enabled, logger: logger}
}

// FetchMatches reads the file and returns the rows matching league and season.
// Empty league or season matches everything.
func (p *CSVHistoryProvider) FetchMatches(ctx context.Context, league, season string) ([]*models.MatchHistoryRow, error) {
	if !p.enabled {
		return nil, NewDataSourceError(csvSourceName, ErrCodeNetworkError, "data source disabled", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeNotFound, fmt.Sprintf("cannot open %s", p.path), err)
	}
	defer f.Close()

	matches, err := p.parse(f)
	if err != nil {
		return nil, err
	}

	if league == "" && season == "" {
		return matches, nil
	}

	filtered := matches[:0]
	for _, m := range matches {
		if league != "" && m.League != league {
			continue
		}
		if season != "" && m.Season != season {
			continue
		}
		filtered = append(filtered, m)
	}

	return filtered, nil
}

// Name returns the data source name
func (p *CSVHistoryProvider) Name() string {
	return csvSourceName
}

// IsEnabled returns whether this data source is enabled
func (p *CSVHistoryProvider) IsEnabled() bool {
	return p.enabled
}

func (p *CSVHistoryProvider) parse(r io.Reader) ([]*models.MatchHistoryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 9

	header, err := reader.Read()
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, "failed to read header", err)
	}
	if len(header) != 9 || header[0] != "date" {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData,
			fmt.Sprintf("unexpected header: %v", header), nil)
	}

	var matches []*models.MatchHistoryRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData,
				fmt.Sprintf("bad record at line %d", line), err)
		}

		match, err := parseCSVMatch(record)
		if err != nil {
			if p.logger != nil {
				p.logger.Printf("Skipping line %d: %v", line, err)
			}
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func parseCSVMatch(record []string) (*models.MatchHistoryRow, error) {
	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", record[0], err)
	}

	homeGoals, err := strconv.Atoi(record[3])
	if err != nil {
		return nil, fmt.Errorf("bad home goals %q: %w", record[3], err)
	}
	awayGoals, err := strconv.Atoi(record[4])
	if err != nil {
		return nil, fmt.Errorf("bad away goals %q: %w", record[4], err)
	}

	match := &models.MatchHistoryRow{
		Date:      date,
		HomeTeam:  record[1],
		AwayTeam:  record[2],
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		League:    record[7],
		Season:    record[8],
	}

	if record[5] != "" {
		if match.HomeXG, err = strconv.ParseFloat(record[5], 64); err != nil {
			return nil, fmt.Errorf("bad home xg %q: %w", record[5], err)
		}
	}
	if record[6] != "" {
		if match.AwayXG, err = strconv.ParseFloat(record[6], 64); err != nil {
			return nil, fmt.Errorf("bad away xg %q: %w", record[6], err)
		}
	}

	return match, nil
}
