// Package poster generates the printable shop poster PDF using maroto/v2.
// The poster carries the shop name and a QR code pointing at the public
// storefront URL, sized for an A4 print shop owners can hang at the counter.
package poster

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/skip2/go-qrcode"
)

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
)

// Data holds everything the poster needs.
type Data struct {
	ShopName      string
	Tagline       string
	StorefrontURL string
}

// Generate renders the poster PDF.
func Generate(data Data) ([]byte, error) {
	if strings.TrimSpace(data.StorefrontURL) == "" {
		return nil, fmt.Errorf("storefront URL is required")
	}

	qrPNG, err := qrcode.Encode(data.StorefrontURL, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("encode storefront QR: %w", err)
	}

	cfg := config.NewBuilder().
		WithLeftMargin(20).
		WithTopMargin(25).
		WithRightMargin(20).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(24).Add(
			col.New(12).Add(
				text.New(data.ShopName, props.Text{
					Size:  28,
					Style: fontstyle.Bold,
					Align: align.Center,
					Color: colorPrimary,
				}),
			),
		),
	)

	if data.Tagline != "" {
		m.AddRows(
			row.New(12).Add(
				col.New(12).Add(
					text.New(data.Tagline, props.Text{
						Size:  12,
						Align: align.Center,
						Color: colorSecondary,
					}),
				),
			),
		)
	}

	m.AddRows(row.New(10)) // spacer

	m.AddRows(
		row.New(120).Add(
			col.New(2),
			col.New(8).Add(
				image.NewFromBytes(qrPNG, extension.Png, props.Rect{
					Percent: 100,
					Center:  true,
				}),
			),
			col.New(2),
		),
	)

	m.AddRows(
		row.New(14).Add(
			col.New(12).Add(
				text.New("Scan to browse and order", props.Text{
					Size:  14,
					Align: align.Center,
					Color: colorPrimary,
					Top:   4,
				}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(data.StorefrontURL, props.Text{
					Size:  9,
					Align: align.Center,
					Color: colorSecondary,
				}),
			),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate poster PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
