package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"catalog_service/internal/domain"

	"github.com/gocarina/gocsv"
)

// productRow is one line of a bulk import file. Specs are a JSON object;
// hand-written files may use "key=value;key=value" instead.
type productRow struct {
	Name         string `csv:"name"`
	Price        string `csv:"price"`
	Discount     string `csv:"discount"`
	Category     string `csv:"category"`
	Image        string `csv:"image"`
	Description  string `csv:"description"`
	Availability string `csv:"availability"`
	Specs        string `csv:"specs"`
}

func (r productRow) input() (ProductInput, error) {
	specs, err := parseSpecsColumn(r.Specs)
	if err != nil {
		return ProductInput{}, err
	}
	return ProductInput{
		Name:         FormValue(r.Name),
		Price:        FormValue(r.Price),
		Discount:     FormValue(r.Discount),
		Category:     FormValue(r.Category),
		Image:        FormValue(r.Image),
		Description:  FormValue(r.Description),
		Availability: FormValue(r.Availability),
		Specs:        specs,
	}, nil
}

func parseSpecsColumn(raw string) (SpecRows, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var specs SpecRows
		if err := json.Unmarshal([]byte(raw), &specs); err != nil {
			return nil, err
		}
		return specs, nil
	}

	var specs SpecRows
	for _, pair := range strings.Split(raw, ";") {
		key, value, _ := strings.Cut(pair, "=")
		if strings.TrimSpace(key) == "" && strings.TrimSpace(value) == "" {
			continue
		}
		specs = append(specs, SpecField{Key: key, Value: value})
	}
	return specs, nil
}

type ImportRowResult struct {
	Row    int                     `json:"row"`
	ID     string                  `json:"id,omitempty"`
	Errors domain.ValidationErrors `json:"errors,omitempty"`
}

type ImportReport struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Rows     []ImportRowResult `json:"rows"`
}

// ImportProducts adds every valid row of a CSV file in one write. Rows that
// fail validation are reported by line number and skipped.
func (uc *productUseCase) ImportProducts(ctx context.Context, r io.Reader) (*ImportReport, error) {
	var rows []productRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		uc.log.Warnf("Use Case: Could not parse import file: %v", err)
		return nil, domain.ValidationErrors{"file": "Import file is not valid CSV: " + err.Error()}
	}

	report := &ImportReport{Rows: make([]ImportRowResult, 0, len(rows))}
	var accepted []int
	var products []domain.Product
	for i, row := range rows {
		// Line 1 is the header.
		result := ImportRowResult{Row: i + 2}
		in, err := row.input()
		if err != nil {
			result.Errors = domain.ValidationErrors{"specs": "Specifications must be a JSON object of text values"}
			report.Failed++
			report.Rows = append(report.Rows, result)
			continue
		}
		product, errs := ValidateProductInput(in)
		if len(errs) > 0 {
			result.Errors = errs
			report.Failed++
		} else {
			accepted = append(accepted, len(report.Rows))
			products = append(products, product)
		}
		report.Rows = append(report.Rows, result)
	}

	if len(products) > 0 {
		err := uc.catalog.mutate(ctx, func(s *catalogState) error {
			for i := range products {
				products[i].ID = uc.uniqueID(s)
				s.products = append(s.products, products[i])
			}
			return nil
		})
		if err != nil {
			uc.log.Errorf("Use Case: Failed to store %d imported products: %v", len(products), err)
			return nil, err
		}
		for i, idx := range accepted {
			report.Rows[idx].ID = products[i].ID
		}
		report.Imported = len(products)
	}

	uc.log.Infof("Use Case: Import finished, %d imported and %d rejected", report.Imported, report.Failed)
	return report, nil
}

// ProductsCSV writes the catalog in the import format.
func (uc *productUseCase) ProductsCSV(ctx context.Context, w io.Writer) error {
	products := uc.catalog.products()
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		in := inputFromProduct(p)
		specs, err := json.Marshal(p.Specs)
		if err != nil {
			return fmt.Errorf("could not encode specs of product %s: %w", p.ID, err)
		}
		rows = append(rows, productRow{
			Name:         p.Name,
			Price:        string(in.Price),
			Discount:     string(in.Discount),
			Category:     p.Category,
			Image:        p.Image,
			Description:  p.Description,
			Availability: string(p.Availability),
			Specs:        string(specs),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("could not write catalog csv: %w", err)
	}
	return nil
}
