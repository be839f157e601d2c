package main

import (
	"github.com/chazu/hull3d/pkg/config"
	"github.com/chazu/hull3d/pkg/engine"
	"github.com/chazu/hull3d/pkg/kernel"
	"github.com/chazu/hull3d/pkg/kernel/sdfx"
	"github.com/chazu/hull3d/pkg/scene"
	"github.com/chazu/hull3d/pkg/tessellate"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// colorPalette is a default palette used to assign distinct colors to hulls.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs hull scripts through the engine, validator, and kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *zap.Logger
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Exact    bool      `json:"exact"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Hull    string `json:"hull,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App with default settings and no logging.
func NewApp() *App {
	return NewAppWithConfig(config.Default(), zap.NewNop())
}

// NewAppWithConfig creates an App from loaded settings.
func NewAppWithConfig(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		engine: engine.NewEngine(engine.WithTimeout(cfg.Engine.Timeout)),
		kernel: sdfx.New(cfg.HullOptions(log.Named("hull"))...),
		log:    log,
	}
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Validate the scene; blocking findings stop here.
	vr := scene.ValidateAll(s)
	result.Warnings = append(result.Warnings, lo.Map(vr.Warnings, validationData)...)
	if !vr.OK() {
		result.Errors = append(result.Errors, lo.Map(vr.Errors, validationData)...)
		return result
	}

	// Step 4: Build one mesh per hull. Failed hulls are reported while the
	// rest are still returned.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	for _, e := range multierr.Errors(err) {
		a.log.Warn("hull failed", zap.Error(e))
		data := EvalErrorData{Message: e.Error()}
		var he *tessellate.HullError
		if errors.As(e, &he) {
			data.Hull = he.Hull
		}
		result.Errors = append(result.Errors, data)
	}

	// Step 5: Convert kernel meshes to MeshData.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
			Exact:    m.Exact,
		})
	}

	a.log.Info("evaluated",
		zap.Uint64("version", s.Version),
		zap.Int("hulls", s.HullCount()),
		zap.Int("points", s.PointCount()),
		zap.Int("meshes", len(result.Meshes)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result
}

func validationData(e scene.ValidationError, _ int) EvalErrorData {
	return EvalErrorData{Hull: e.Hull, Message: e.Message}
}
