package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"RiskVaR/internal/domain/models"
	domsvc "RiskVaR/internal/domain/service"
	isvc "RiskVaR/internal/service"
	"RiskVaR/internal/service/finnhub"
	"RiskVaR/internal/service/ratelimit"
	"RiskVaR/internal/usecase"
	"RiskVaR/pkg/config"
	xhttp "RiskVaR/pkg/http"
)

func main() {
	ticker := flag.String("ticker", "AAPL", "ticker symbol to analyze")
	confidence := flag.Float64("confidence", 0.95, "confidence level for VaR")
	value := flag.Float64("value", 100000, "portfolio value in dollars")
	horizon := flag.Int("horizon", 1, "time horizon in days")
	simulations := flag.Int("simulations", 10000, "number of Monte Carlo simulations")
	lookback := flag.Int("lookback", 730, "price history lookback in days")
	returns := flag.String("returns", "log", "return method: log or simple")
	seed := flag.Uint64("seed", 0, "Monte Carlo seed (0 = random)")
	pricesPath := flag.String("prices", "", "CSV file of daily closes (skips market data fetch)")
	configPath := flag.String("config", "", "config file path (for Finnhub credentials)")
	flag.Parse()

	req := models.VarRequest{
		Ticker:       *ticker,
		Confidence:   *confidence,
		Value:        *value,
		HorizonDays:  *horizon,
		Simulations:  *simulations,
		LookbackDays: *lookback,
		ReturnMethod: *returns,
		Seed:         *seed,
	}

	source, err := buildSource(*pricesPath, *configPath, *ticker)
	if err != nil {
		log.Fatalf("varcli: %v", err)
	}

	fmt.Println("Fetching data and calculating VaR...")
	fmt.Println()

	pipeline := usecase.NewRiskPipeline(source, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	report, err := pipeline.Run(ctx, req)
	if err != nil {
		log.Fatalf("varcli: %v", err)
	}

	if report.Stats.N < 30 {
		fmt.Fprintf(os.Stderr, "warning: only %d returns in sample; estimates are low-confidence\n\n", report.Stats.N)
	}
	fmt.Println(summarize(report))
}

func buildSource(pricesPath, configPath, ticker string) (domsvc.PriceSource, error) {
	if pricesPath != "" {
		return &isvc.CSVPriceSource{Path: pricesPath, Ticker: ticker}, nil
	}
	if configPath == "" {
		return nil, fmt.Errorf("either -prices or -config is required")
	}
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, err
	}
	return finnhub.NewHistory(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.RESTURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Finnhub.RESTTimeout)),
		ratelimit.New(),
	), nil
}

func summarize(r *models.RiskReport) string {
	confPct := r.Confidence * 100
	lines := []string{
		fmt.Sprintf("Ticker: %s", r.Ticker),
		fmt.Sprintf("Portfolio Value: $%s", commas(r.PortfolioValue)),
		fmt.Sprintf("Confidence Level: %.0f%%", confPct),
		"",
		"Value at Risk (VaR) Results:",
		"  Historical Method:",
		fmt.Sprintf("    VaR: %.4f%%", r.Historical.Fraction*100),
		fmt.Sprintf("    VaR (Dollar): $%s", commas(r.Historical.Dollar)),
		"",
		"  Parametric Method (Normal Distribution):",
		fmt.Sprintf("    VaR: %.4f%%", r.Parametric.Fraction*100),
		fmt.Sprintf("    VaR (Dollar): $%s", commas(r.Parametric.Dollar)),
		"",
		"  Monte Carlo Method:",
		fmt.Sprintf("    VaR: %.4f%%", r.MonteCarlo.Fraction*100),
		fmt.Sprintf("    VaR (Dollar): $%s", commas(r.MonteCarlo.Dollar)),
		"",
		"Interpretation:",
		fmt.Sprintf("  With %.0f%% confidence, the maximum expected loss over %d day(s) is:", confPct, r.HorizonDays),
		fmt.Sprintf("    Historical: $%s", commas(r.Historical.Dollar)),
		fmt.Sprintf("    Parametric: $%s", commas(r.Parametric.Dollar)),
		fmt.Sprintf("    Monte Carlo: $%s", commas(r.MonteCarlo.Dollar)),
	}
	return strings.Join(lines, "\n")
}

// commas renders 1234567.891 as "1,234,567.89".
func commas(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
