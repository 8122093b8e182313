// HouseForge CLI - estimativa de obras residenciais
//
// Uso:
//
//	houseforge estimate --sqft 2000 --rooms 4 --floors 2 --bathrooms 3 --tier low
//	houseforge compare --sqft 2000 --rooms 4 --floors 2 --bathrooms 3
//	houseforge export --sqft 2000 --rooms 4 --floors 2 --bathrooms 3 --out obra.xlsx
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "houseforge",
		Usage:   "Estimativa de materiais, custos e cronograma de obras residenciais",
		Version: fmt.Sprintf("%s (modelo %s)", version, estimator.ModelVersion),
		Writer:  out,
		Commands: []*cli.Command{
			estimateCommand(),
			compareCommand(),
			exportCommand(),
		},
	}
}

// inputFlags são os parâmetros da obra, comuns a todos os comandos
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "sqft", Aliases: []string{"s"}, Usage: "Área construída em pés quadrados", Required: true},
		&cli.IntFlag{Name: "rooms", Aliases: []string{"r"}, Usage: "Número de cômodos", Required: true},
		&cli.IntFlag{Name: "floors", Value: 1, Usage: "Número de andares"},
		&cli.IntFlag{Name: "bathrooms", Aliases: []string{"b"}, Usage: "Número de banheiros", Required: true},
		&cli.StringFlag{Name: "tier", Aliases: []string{"t"}, Value: "medium", Usage: "Faixa de orçamento (low, medium, high)"},
	}
}

func inputFrom(c *cli.Context) estimator.Input {
	return estimator.Input{
		SquareFeet: c.Float64("sqft"),
		Rooms:      c.Int("rooms"),
		Floors:     c.Int("floors"),
		Bathrooms:  c.Int("bathrooms"),
		BudgetTier: c.String("tier"),
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Calcula a estimativa e mostra o resumo da faixa selecionada",
		Flags: append(inputFlags(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Formato de saída (text, json)"},
		),
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	in := inputFrom(c)
	result, err := estimator.Estimate(in)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		return writeSummary(c.App.Writer, in, result)
	default:
		return fmt.Errorf("formato desconhecido: %s", c.String("format"))
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:   "compare",
		Usage:  "Compara os custos das três faixas de orçamento",
		Flags:  inputFlags(),
		Action: runCompare,
	}
}

func runCompare(c *cli.Context) error {
	in := inputFrom(c)
	result, err := estimator.Estimate(in)
	if err != nil {
		return err
	}
	return writeComparison(c.App.Writer, in, result)
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Gera a planilha Excel da estimativa",
		Flags: append(inputFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Arquivo .xlsx de saída", Required: true},
			&cli.StringFlag{Name: "title", Usage: "Título da obra na planilha"},
		),
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	in := inputFrom(c)
	result, err := estimator.Estimate(in)
	if err != nil {
		return err
	}

	buf, err := service.EstimateWorkbook(c.String("title"), in, result)
	if err != nil {
		return fmt.Errorf("falha ao gerar planilha: %w", err)
	}
	if err := os.WriteFile(c.String("out"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("falha ao gravar %s: %w", c.String("out"), err)
	}

	fmt.Fprintf(c.App.Writer, "Planilha gravada em %s (faixa %s)\n", c.String("out"), result.SelectedBudgetTier)
	return nil
}
