package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/smartcity/pkg/core"
)

// DOTGenerator renders the car lifecycle, and optionally the traffic light
// cycle, as Graphviz DOT
type DOTGenerator struct {
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowReasons     bool
	ShowDeferrals   bool
	ShowLightCycle  bool
	RankDirection   string // "TB", "LR", "BT", "RL"
	NodeShape       string
	TransitionStyle string

	// Counts, when set, annotates every state with the number of cars in it
	Counts map[core.CarState]int
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowReasons:     true,
		ShowDeferrals:   false,
		ShowLightCycle:  false,
		RankDirection:   "LR",
		NodeShape:       "box",
		TransitionStyle: "solid",
	}
}

// NewDOTGenerator creates a new DOT generator
func NewDOTGenerator(options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{options: opts}
}

var stateColors = map[core.CarState]string{
	core.Driving:        "lightgreen",
	core.ToParking:      "lightyellow",
	core.Parked:         "lightblue",
	core.LeavingParking: "lightsalmon",
}

var lightColors = map[core.LightState]string{
	core.LightGreen:  "green",
	core.LightYellow: "gold",
	core.LightRed:    "red",
}

// Generate creates the DOT representation
func (g *DOTGenerator) Generate() (string, error) {
	if g.options.RankDirection == "" {
		return "", fmt.Errorf("rank direction must be set")
	}

	var dot strings.Builder

	dot.WriteString("digraph CarLifecycle {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString("  node [shape=box];\n")
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	if g.options.ShowLightCycle {
		g.generateLightCycle(&dot)
	}

	dot.WriteString("}\n")

	return dot.String(), nil
}

func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	dot.WriteString("  // States\n")

	for _, state := range core.CarStates {
		label := state.String()
		if state == core.Driving {
			label += "\\n(initial)"
		}
		if g.options.Counts != nil {
			label += fmt.Sprintf("\\n%d cars", g.options.Counts[state])
		}

		dot.WriteString(fmt.Sprintf("  \"%s\" [shape=%s style=\"filled\" fillcolor=%s label=\"%s\"];\n",
			state, g.options.NodeShape, stateColors[state], label))
	}
}

func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	for _, t := range core.Lifecycle {
		attrs := fmt.Sprintf("style=%s", g.options.TransitionStyle)
		if g.options.ShowReasons {
			attrs += fmt.Sprintf(" label=\"%s\"", t.Reason)
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", t.From, t.To, attrs))
	}

	if g.options.ShowDeferrals {
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [style=dashed label=\"%s | %s\"];\n",
			core.Parked, core.Parked, core.ReasonExitInUse, core.ReasonRoadNotClear))
	}
}

func (g *DOTGenerator) generateLightCycle(dot *strings.Builder) {
	states := []core.LightState{core.LightGreen, core.LightYellow, core.LightRed}

	dot.WriteString("\n  subgraph cluster_light {\n")
	dot.WriteString("    label=\"Traffic light\";\n")
	for _, s := range states {
		dot.WriteString(fmt.Sprintf("    \"light_%s\" [shape=circle style=\"filled\" fillcolor=%s label=\"%s\\n%gs\"];\n",
			s, lightColors[s], s, s.Duration()))
	}
	for _, s := range states {
		dot.WriteString(fmt.Sprintf("    \"light_%s\" -> \"light_%s\";\n", s, s.Next()))
	}
	dot.WriteString("  }\n")
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG converts the DOT representation to SVG with the Graphviz dot
// command
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
