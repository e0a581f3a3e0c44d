package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/guptarohit/asciigraph"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/analysis"
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/cell"
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/deck"
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/fiber"
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/util"
)

func loadDeck() *deck.Deck {
	if flag.NArg() == 0 {
		return deck.Default()
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading deck file: %v", err)
	}
	d, err := deck.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing deck: %v", err)
	}
	return d
}

func printCell(no int, feat analysis.APFeatures, err error) {
	fmt.Printf("\nCell %d:\n", no)
	if err != nil {
		fmt.Printf("  %v\n", err)
		return
	}
	fmt.Printf("  Peak voltage = %s\n", util.FormatVoltage(feat.PeakV))
	fmt.Printf("  Peak time    = %s\n", util.FormatDuration(feat.PeakTime))
	fmt.Printf("  Max upstroke = %s\n", util.FormatRate(feat.VMax))
	fmt.Printf("  Repol onset  = %s\n", util.FormatDuration(feat.RepolStart))
	fmt.Printf("  APD90        = %s\n", util.FormatDuration(feat.APD90))
}

func printConduction(cond analysis.ConductionResult, distance float64) {
	fmt.Println("\nConduction:")
	fmt.Printf("  Distance     = %g cm\n", distance)
	fmt.Printf("  Delay        = %s\n", util.FormatDuration(cond.Delay))
	if cond.Defined() {
		fmt.Printf("  Velocity     = %.4g cm/s\n", cond.Velocity)
	} else {
		fmt.Println("  Velocity     = undefined")
	}
}

func printIV(k *cell.Constants) {
	sw, err := analysis.NewVSweep(k, -100, 60, 5)
	if err != nil {
		log.Fatalf("IV sweep setup failed: %v", err)
	}
	if err := sw.Execute(); err != nil {
		log.Fatalf("IV sweep failed: %v", err)
	}
	results := sw.Results()

	fmt.Println("\nSteady-State IV Curves (uA/cm^2):")
	fmt.Println("=================================")
	fmt.Printf("%8s %9s %9s %9s %9s %9s %9s\n", "V (mV)", "INa", "ICaL", "IK", "IK1", "IKp", "Itotal")
	for i, v := range results["V"] {
		fmt.Printf("%8.1f %9.4f %9.4f %9.4f %9.4f %9.4f %9.4f\n",
			v, results["INA"][i], results["ICAL"][i], results["IK"][i],
			results["IK1"][i], results["IKP"][i], results["ITOTAL"][i])
	}
}

func printAscii(v1, v2 []float64) {
	fmt.Println()
	fmt.Println(asciigraph.Plot(v1,
		asciigraph.Height(12), asciigraph.Width(100),
		asciigraph.Caption("Cell 1 membrane potential (mV)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(v2,
		asciigraph.Height(12), asciigraph.Width(100),
		asciigraph.Caption("Cell 2 membrane potential (mV)")))
}

func writePlot(path string, t, v1, v2 []float64) error {
	graph := chart.Chart{
		Title: "Membrane potential",
		XAxis: chart.XAxis{Name: "Time (ms)"},
		YAxis: chart.YAxis{Name: "V (mV)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Cell 1",
				XValues: t,
				YValues: v1,
				Style: chart.Style{
					StrokeColor: drawing.ColorRed,
					StrokeWidth: 2.0,
				},
			},
			chart.ContinuousSeries{
				Name:    "Cell 2",
				XValues: t,
				YValues: v2,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2.0,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return graph.Render(chart.PNG, f)
}

func featPtr(feat analysis.APFeatures, err error) *analysis.APFeatures {
	if err != nil {
		return nil
	}
	return &feat
}

func main() {
	plotPath := flag.String("plot", "", "write a PNG plot of both membrane potentials")
	asciiPlot := flag.Bool("ascii", false, "draw the membrane potentials on the terminal")
	ivTable := flag.Bool("iv", false, "print steady-state IV curves")
	flag.Parse()

	d := loadDeck()
	fmt.Printf("Deck: %s\n", d.Title)

	f, err := fiber.New(d.Constants, d.Stimulus)
	if err != nil {
		log.Fatalf("Setup failed: %v", err)
	}

	tran := analysis.NewTransient(d.Tran.Start, d.Tran.Stop, d.Tran.Samples)
	if err := tran.Setup(f, f.RestingState(d.Constants.VRest)); err != nil {
		log.Fatalf("Transient setup failed: %v", err)
	}
	fmt.Printf("Integrating %g ms, %d samples\n", d.Tran.Stop-d.Tran.Start, d.Tran.Samples)
	if err := tran.Execute(); err != nil {
		log.Fatalf("Transient failed: %v", err)
	}

	trace := tran.Trace()
	v1 := trace.Component(fiber.VoltageIndex(1))
	v2 := trace.Component(fiber.VoltageIndex(2))

	feat1, err1 := analysis.AnalyzeAP(trace.Time, v1, d.Constants.VRest)
	feat2, err2 := analysis.AnalyzeAP(trace.Time, v2, d.Constants.VRest)

	fmt.Println("\nAction Potential Features:")
	fmt.Println("==========================")
	printCell(1, feat1, err1)
	printCell(2, feat2, err2)

	cond := analysis.AnalyzeConduction(featPtr(feat1, err1), featPtr(feat2, err2), d.Constants.Distance())
	printConduction(cond, d.Constants.Distance())

	if *ivTable {
		printIV(d.Constants)
	}
	if *asciiPlot {
		printAscii(v1, v2)
	}
	if *plotPath != "" {
		if err := writePlot(*plotPath, trace.Time, v1, v2); err != nil {
			log.Fatalf("Error writing plot: %v", err)
		}
		fmt.Printf("\nPlot written to %s\n", *plotPath)
	}
}
