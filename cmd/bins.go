package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
)

var (
	binsFrom   float64
	binsTo     float64
	binsLookup []float64
)

var binsCmd = &cobra.Command{
	Use:   "bins",
	Short: "List the frequency bins of a sampling context",
	Long: `Print the center frequency and frequency interval of every bin for the
configured sample rate and window length, optionally limited to a frequency
range. With --lookup, print the bin that each given frequency falls into.`,
	Args: cobra.NoArgs,
	RunE: runBins,
}

func init() {
	rootCmd.AddCommand(binsCmd)
	addAnalysisFlags(binsCmd)

	binsCmd.Flags().Float64Var(&binsFrom, "from", 0, "lowest center frequency to list in Hz")
	binsCmd.Flags().Float64Var(&binsTo, "to", -1, "highest center frequency to list in Hz (-1 = Nyquist)")
	binsCmd.Flags().Float64SliceVar(&binsLookup, "lookup", nil, "frequencies in Hz to map to bins")
}

type binRow struct {
	Bin       int     `json:"bin" yaml:"bin"`
	Frequency float32 `json:"frequency_hz" yaml:"frequency_hz"`
	Low       float32 `json:"low_hz" yaml:"low_hz"`
	High      float32 `json:"high_hz" yaml:"high_hz"`
	Query     float64 `json:"query_hz,omitempty" yaml:"query_hz,omitempty"`
}

func runBins(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig()
	if err != nil {
		return err
	}
	sc, err := cfg.SamplingContext()
	if err != nil {
		return err
	}

	var selected []binRow
	if len(binsLookup) > 0 {
		for _, f := range binsLookup {
			row := newBinRow(sc.BinForFrequency(float32(f)))
			row.Query = f
			selected = append(selected, row)
		}
	} else {
		for _, bin := range sc.Bins() {
			f := float64(bin.Frequency())
			if f < binsFrom || (binsTo >= 0 && f > binsTo) {
				continue
			}
			selected = append(selected, newBinRow(bin))
		}
	}

	table := &Table{
		Title:   sc.String() + ", " + formatFloat(float64(sc.FrequencyGap()), 3) + " Hz per bin",
		Columns: []string{"bin", "frequency_hz", "low_hz", "high_hz"},
		Value:   selected,
	}
	if len(binsLookup) > 0 {
		table.Columns = append([]string{"query_hz"}, table.Columns...)
	}

	for _, r := range selected {
		row := []string{
			strconv.Itoa(r.Bin),
			formatFloat(float64(r.Frequency), 3),
			formatFloat(float64(r.Low), 3),
			formatFloat(float64(r.High), 3),
		}
		if len(binsLookup) > 0 {
			row = append([]string{formatFloat(r.Query, 3)}, row...)
		}
		table.Rows = append(table.Rows, row)
	}

	return emit(table)
}

func newBinRow(bin spectral.DiscreteFrequency) binRow {
	low, high := bin.FrequencyInterval()
	return binRow{
		Bin:       bin.Index(),
		Frequency: bin.Frequency(),
		Low:       low,
		High:      high,
	}
}
