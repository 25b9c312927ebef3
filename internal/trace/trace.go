// Package trace runs a built stage headlessly and records what every scale
// interpolator did on every frame.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/stage"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Record is one interpolator on one frame.
type Record struct {
	Frame        uint64        `json:"frame"`
	Time         time.Duration `json:"time_ns"`
	Interpolator string        `json:"interpolator"`
	Target       string        `json:"target"`
	Written      bool          `json:"written"`
	Alpha        float64       `json:"alpha"`
	Scale        float64       `json:"scale"`
	State        string        `json:"state"`
}

// Summary aggregates the records of one interpolator.
type Summary struct {
	Interpolator string  `json:"interpolator"`
	Writes       int     `json:"writes"`
	FinalScale   float64 `json:"final_scale"`
	FinalState   string  `json:"final_state"`
}

// Trace is the result of Run.
type Trace struct {
	TPS       int       `json:"tps"`
	Frames    int       `json:"frames"`
	IdleFrame uint64    `json:"idle_frame,omitempty"`
	Records   []Record  `json:"records"`
	Summaries []Summary `json:"summaries"`
}

// Run steps st.Scene frames times at 1/tps seconds per frame.
func Run(st *stage.Stage, frames, tps int) (*Trace, error) {
	if tps <= 0 {
		return nil, fmt.Errorf("tps must be positive, got %d", tps)
	}
	dt := time.Second / time.Duration(tps)
	tr := &Trace{TPS: tps, Frames: frames}

	writes := make([]uint64, len(st.Interpolators))
	for i := 0; i < frames; i++ {
		if err := st.Scene.Step(dt); err != nil {
			return tr, fmt.Errorf("frame %d: %w", i+1, err)
		}
		for j, si := range st.Interpolators {
			tr.Records = append(tr.Records, record(st.Scene, si, &writes[j]))
		}
		if tr.IdleFrame == 0 && len(st.Interpolators) > 0 && st.Scene.Idle() {
			tr.IdleFrame = st.Scene.Frame()
		}
	}
	tr.Summaries = summarize(st.Interpolators, tr.Records)
	return tr, nil
}

func record(scene *arbor.Scene, si *arbor.ScaleInterpolator, lastWrites *uint64) Record {
	r := Record{
		Frame:        scene.Frame(),
		Time:         scene.Now(),
		Interpolator: stage.Name(si),
		State:        si.State().String(),
	}
	if target := si.Target(); target != nil {
		r.Target = target.Name
		w := target.TransformWrites()
		r.Written = w != *lastWrites
		*lastWrites = w
	}
	if v, ok := si.LastAlpha(); ok {
		r.Alpha = v
		r.Scale = si.ScaleAt(v)
	}
	return r
}

func summarize(interps []*arbor.ScaleInterpolator, records []Record) []Summary {
	out := make([]Summary, len(interps))
	index := make(map[string]int, len(interps))
	for i, si := range interps {
		out[i].Interpolator = stage.Name(si)
		index[out[i].Interpolator] = i
	}
	for _, r := range records {
		s := &out[index[r.Interpolator]]
		if r.Written {
			s.Writes++
		}
		s.FinalScale = r.Scale
		s.FinalState = r.State
	}
	return out
}

// WriteJSON writes the trace as indented JSON.
func (t *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteText writes the per-interpolator summary.
func (t *Trace) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d frames at %d tps\n", t.Frames, t.TPS); err != nil {
		return err
	}
	for _, s := range t.Summaries {
		if _, err := fmt.Fprintf(w, "%-16s writes=%-4d scale=%.4f state=%s\n",
			s.Interpolator, s.Writes, s.FinalScale, s.FinalState); err != nil {
			return err
		}
	}
	if t.IdleFrame > 0 {
		_, err := fmt.Fprintf(w, "idle from frame %d\n", t.IdleFrame)
		return err
	}
	return nil
}

// Plot builds a scale-over-time line chart with one line per interpolator.
func (t *Trace) Plot(title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Scale"

	series := make(map[string]plotter.XYs)
	var order []string
	for _, r := range t.Records {
		if _, ok := series[r.Interpolator]; !ok {
			order = append(order, r.Interpolator)
		}
		series[r.Interpolator] = append(series[r.Interpolator], plotter.XY{X: r.Time.Seconds(), Y: r.Scale})
	}

	for i, name := range order {
		line, err := plotter.NewLine(series[name])
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePNG renders the chart to w.
func (t *Trace) WritePNG(w io.Writer, title string) error {
	p, err := t.Plot(title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders the chart to a file.
func (t *Trace) SavePNG(path, title string) error {
	p, err := t.Plot(title)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
