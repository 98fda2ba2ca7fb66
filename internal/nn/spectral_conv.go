package nn

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/tensor"
)

// SpectralConv is an N-dimensional Fourier Neural Operator block.
//
// It transforms the activation to frequency space, keeps the lowest n_modes
// frequencies per axis, mixes channels there with a complex weight (dense or
// CP, Tucker or TT factorized), and transforms back, optionally at a new
// resolution:
//
//	x: [batch, in, d_1, ..., d_N] -> y: [batch, out, d'_1, ..., d'_N]
//
// The weight is allocated once for max_n_modes. Lowering n_modes or running
// on a coarser grid only uses the inner part of the weight, so one layer
// serves several resolutions.
//
// A layer holds no locks. Concurrent forward passes are safe as long as no
// caller changes n_modes or the weight at the same time.
//
// Example:
//
//	cfg := nn.DefaultSpectralConvConfig(3, 4, 8, 8)
//	conv, err := nn.NewSpectralConv(cfg, cpu.New())
//	if err != nil {
//	    return err
//	}
//	y := conv.Forward(x) // [2, 3, 16, 16] -> [2, 4, 16, 16]
type SpectralConv[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	order       int

	nModes    []int // Active modes, stored (adjusted) units
	maxNModes []int // Weight capacity, stored units

	separable      bool
	complexData    bool
	norm           tensor.FFTNorm
	precision      PrecisionMode
	implementation Implementation
	scaling        [][]float64 // Per-site, per-axis ratios; nil keeps resolution

	weight   factorized.Tensor
	bias     *tensor.RawTensor // float32 (out, 1, ..., 1), nil when disabled
	contract contractFunc

	backend B
	logger  *slog.Logger
}

// NewSpectralConv validates cfg, allocates the weight and initializes it.
//
// Configuration problems return a *ConfigError (errors.Is ErrInvalidConfig);
// an unknown factorization name returns an error wrapping
// factorized.ErrUnsupportedRepresentation.
func NewSpectralConv[B tensor.Backend](cfg SpectralConvConfig, backend B) (*SpectralConv[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := factorized.ParseKind(cfg.Factorization)
	if err != nil {
		return nil, err
	}
	norm, err := tensor.ParseFFTNorm(cfg.FFTNorm)
	if err != nil {
		return nil, configErrorf("FFTNorm", "%v", err)
	}
	scaling, err := normalizeScaling(cfg.OutputScalingFactor, len(cfg.NModes))
	if err != nil {
		return nil, err
	}
	contract, err := selectContraction(cfg.Implementation, kind, cfg.Separable)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &SpectralConv[B]{
		inChannels:     cfg.InChannels,
		outChannels:    cfg.OutChannels,
		order:          len(cfg.NModes),
		nModes:         adjustModes(cfg.NModes, cfg.ComplexData),
		separable:      cfg.Separable,
		complexData:    cfg.ComplexData,
		norm:           norm,
		precision:      cfg.PrecisionMode,
		implementation: cfg.Implementation,
		scaling:        scaling,
		contract:       contract,
		backend:        backend,
		logger:         logger,
	}

	// An explicit capacity is already in stored units.
	s.maxNModes = slices.Clone(s.nModes)
	if cfg.MaxNModes != nil {
		s.maxNModes = slices.Clone(cfg.MaxNModes)
	}
	if err := s.checkCapacity(s.nModes, cfg.NModes); err != nil {
		return nil, err
	}

	var fixedModes []int
	if cfg.FixedRankModes {
		fixedModes = []int{0}
	}
	weight, err := factorized.New(s.weightShape(), kind, factorized.Options{
		Rank:       cfg.Rank,
		Ranks:      cfg.Ranks,
		FixedModes: fixedModes,
	})
	if err != nil {
		return nil, configErrorf("Ranks", "%v", err)
	}

	std := cfg.InitStd
	if std == 0 {
		std = AutoInitStd(cfg.InChannels, cfg.OutChannels)
	}
	src := initSource(cfg.Seed)
	weight.Normal(std, src)
	s.weight = weight

	if cfg.Bias {
		s.bias = normalBias(cfg.OutChannels, s.order, std, src)
	}

	logger.Debug("spectral conv created",
		"in_channels", s.inChannels,
		"out_channels", s.outChannels,
		"n_modes", s.nModes,
		"max_n_modes", s.maxNModes,
		"kind", kind.String(),
		"weight_shape", []int(weight.Shape()),
		"ranks", weight.Ranks(),
		"params", weight.NumParams(),
		"implementation", string(s.implementation),
		"precision", string(s.precision),
	)

	return s, nil
}

// weightShape is (in[, out], max_n_modes...).
func (s *SpectralConv[B]) weightShape() tensor.Shape {
	shape := tensor.Shape{s.inChannels}
	if !s.separable {
		shape = append(shape, s.outChannels)
	}
	return append(shape, s.maxNModes...)
}

func (s *SpectralConv[B]) checkCapacity(adjusted, requested []int) error {
	for k := range adjusted {
		if adjusted[k] > s.maxNModes[k] {
			return configErrorf("NModes",
				"axis %d: %d modes (requested %d) exceed max_n_modes %d",
				k, adjusted[k], requested[k], s.maxNModes[k])
		}
	}
	return nil
}

// InChannels returns the number of input channels.
func (s *SpectralConv[B]) InChannels() int { return s.inChannels }

// OutChannels returns the number of output channels.
func (s *SpectralConv[B]) OutChannels() int { return s.outChannels }

// Order returns the number of spatial axes.
func (s *SpectralConv[B]) Order() int { return s.order }

// Separable reports whether the weight is depthwise.
func (s *SpectralConv[B]) Separable() bool { return s.separable }

// ComplexData reports whether the layer expects complex activations.
func (s *SpectralConv[B]) ComplexData() bool { return s.complexData }

// FFTNorm returns the transform normalization.
func (s *SpectralConv[B]) FFTNorm() tensor.FFTNorm { return s.norm }

// PrecisionMode returns the configured precision mode.
func (s *SpectralConv[B]) PrecisionMode() PrecisionMode { return s.precision }

// Implementation returns how the weight meets the activation.
func (s *SpectralConv[B]) Implementation() Implementation { return s.implementation }

// Backend returns the layer's backend.
func (s *SpectralConv[B]) Backend() B { return s.backend }

// OutputScalingFactor returns the per-site, per-axis output ratios, or nil.
func (s *SpectralConv[B]) OutputScalingFactor() [][]float64 {
	if s.scaling == nil {
		return nil
	}
	out := make([][]float64, len(s.scaling))
	for i, r := range s.scaling {
		out[i] = slices.Clone(r)
	}
	return out
}

// NModes returns the active mode counts in stored units: the last axis of a
// real layer holds requested/2 + 1.
func (s *SpectralConv[B]) NModes() []int {
	return slices.Clone(s.nModes)
}

// MaxNModes returns the weight capacity in stored units.
func (s *SpectralConv[B]) MaxNModes() []int {
	return slices.Clone(s.maxNModes)
}

// SetNModes changes the active modes. requested is in raw units (the same
// units as SpectralConvConfig.NModes) and is adjusted from scratch.
//
// Counts above max_n_modes fail with a *ConfigError and leave the current
// modes unchanged.
func (s *SpectralConv[B]) SetNModes(requested ...int) error {
	if len(requested) != s.order {
		return configErrorf("NModes", "got %d axes, want %d", len(requested), s.order)
	}
	for k, m := range requested {
		if m <= 0 {
			return configErrorf("NModes", "axis %d: mode count must be positive, got %d", k, m)
		}
	}
	adjusted := adjustModes(requested, s.complexData)
	if err := s.checkCapacity(adjusted, requested); err != nil {
		return err
	}

	previous := s.nModes
	s.nModes = adjusted
	s.logger.Debug("spectral conv n_modes updated", "previous", previous, "n_modes", adjusted)
	return nil
}

// Weight returns the full stored weight. It shares storage with the layer.
func (s *SpectralConv[B]) Weight() factorized.Tensor {
	return s.weight
}

// Bias returns the float32 bias of shape (out, 1, ..., 1), or nil.
func (s *SpectralConv[B]) Bias() *tensor.RawTensor {
	return s.bias
}

// EffectiveWeight returns the weight window selected by the current n_modes
// at the allocated resolution. Factors are sliced, not reconstructed.
func (s *SpectralConv[B]) EffectiveWeight() factorized.Tensor {
	return s.weight.Window(s.backend, s.weightRanges(s.maxNModes))
}

// oneSided reports whether spectral axis k holds only non-negative
// frequencies (the last axis of a real transform).
func (s *SpectralConv[B]) oneSided(k int) bool {
	return !s.complexData && k == s.order-1
}

func (s *SpectralConv[B]) channelRanges() []tensor.Range {
	ranges := []tensor.Range{tensor.FullRange(s.inChannels)}
	if !s.separable {
		ranges = append(ranges, tensor.FullRange(s.outChannels))
	}
	return ranges
}

// weightRanges windows the weight for a spectrum of fftSize: when fewer
// modes are active (or available) than allocated, the inner part is used.
func (s *SpectralConv[B]) weightRanges(fftSize []int) []tensor.Range {
	ranges := s.channelRanges()
	for k := 0; k < s.order; k++ {
		start := s.maxNModes[k] - min(fftSize[k], s.nModes[k])
		ranges = append(ranges, modeWindow(s.maxNModes[k], start, s.oneSided(k)))
	}
	return ranges
}

// spectrumRanges windows a spectrum of fftSize down to the weight's modes.
func (s *SpectralConv[B]) spectrumRanges(batch, channels int, fftSize, weightModes []int) []tensor.Range {
	ranges := []tensor.Range{tensor.FullRange(batch), tensor.FullRange(channels)}
	for k := 0; k < s.order; k++ {
		start := fftSize[k] - min(fftSize[k], weightModes[k])
		ranges = append(ranges, modeWindow(fftSize[k], start, s.oneSided(k)))
	}
	return ranges
}

// fftAxes returns the spatial axes of a (batch, channels, ...) activation.
func (s *SpectralConv[B]) fftAxes() []int {
	axes := make([]int, s.order)
	for k := range axes {
		axes[k] = k + 2
	}
	return axes
}

// ForwardOption adjusts a single forward pass.
type ForwardOption func(*forwardOptions)

type forwardOptions struct {
	outputShape []int
	site        int
}

// WithOutputShape sets the spatial output shape, overriding any scaling factor.
func WithOutputShape(shape ...int) ForwardOption {
	return func(o *forwardOptions) {
		o.outputShape = slices.Clone(shape)
	}
}

// WithSite selects the output scaling factor of usage site i.
func WithSite(i int) ForwardOption {
	return func(o *forwardOptions) {
		o.site = i
	}
}

// Forward applies the layer to a real activation [batch, in, d_1, ..., d_N].
// It panics on a layer configured for complex data.
func (s *SpectralConv[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if s.complexData {
		panic("spectral conv: layer expects complex activations, use ForwardComplex")
	}
	return tensor.New[float32, B](s.ForwardRaw(x.Raw()), s.backend)
}

// ForwardComplex applies a complex-data layer to a complex activation.
func (s *SpectralConv[B]) ForwardComplex(x *tensor.Tensor[complex64, B], opts ...ForwardOption) *tensor.Tensor[complex64, B] {
	if !s.complexData {
		panic("spectral conv: layer expects real activations, use Forward")
	}
	return tensor.New[complex64, B](s.ForwardRaw(x.Raw(), opts...), s.backend)
}

// ForwardRaw runs the layer on an untyped activation.
//
// Real layers return float32 and complex layers complex64, whatever the
// precision mode. The spatial output shape is the WithOutputShape value when
// given, else the input shape scaled by the selected site's ratios, else the
// input shape.
func (s *SpectralConv[B]) ForwardRaw(x *tensor.RawTensor, opts ...ForwardOption) *tensor.RawTensor {
	var o forwardOptions
	for _, opt := range opts {
		opt(&o)
	}

	shape := x.Shape()
	if len(shape) != s.order+2 {
		panic(fmt.Sprintf("spectral conv: expected activation of rank %d (batch, channels, %d spatial axes), got shape %v",
			s.order+2, s.order, shape))
	}
	if shape[1] != s.inChannels {
		panic(fmt.Sprintf("spectral conv: expected %d input channels, got shape %v", s.inChannels, shape))
	}

	b := s.backend
	spatial := []int(shape[2:].Clone())
	outSpatial := s.outputSize(spatial, o)
	axes := s.fftAxes()

	outFFT := s.filter(x)
	if s.order > 1 {
		outFFT = b.IFFTShift(outFFT, axes[:s.order-1])
	}
	outFFT = b.Cast(outFFT, tensor.Complex64)

	var y *tensor.RawTensor
	if s.complexData {
		y = b.IFFTN(outFFT, axes, outSpatial, s.norm)
	} else {
		y = b.IRFFTN(outFFT, axes, outSpatial, s.norm)
	}

	if s.bias != nil {
		y = b.Add(y, b.Cast(s.bias, y.DType()))
	}
	return y
}

// filter transforms x and returns the output spectrum with zero frequency
// centered on all but the last axis: the contraction of the active modes
// with the weight window, zero everywhere else.
func (s *SpectralConv[B]) filter(x *tensor.RawTensor) *tensor.RawTensor {
	b := s.backend
	shape := x.Shape()
	batch := shape[0]

	fftSize := []int(shape[2:].Clone())
	if !s.complexData {
		fftSize[s.order-1] = fftSize[s.order-1]/2 + 1
	}
	axes := s.fftAxes()
	plan := planPrecision(s.precision, s.complexData)

	x = plan.prepare(b, x)
	var spec *tensor.RawTensor
	if s.complexData {
		spec = b.FFTN(x, axes, nil, s.norm)
	} else {
		spec = b.RFFTN(x, axes, s.norm)
	}
	if s.order > 1 {
		spec = b.FFTShift(spec, axes[:s.order-1])
	}
	spec = b.Cast(spec, plan.spectrum)

	outShape := append(tensor.Shape{batch, s.outChannels}, fftSize...)
	outFFT := tensor.MustNewRaw(outShape, plan.spectrum, b.Device())

	weight := s.weight.Window(b, s.weightRanges(fftSize))
	weightModes := weight.Shape()[len(weight.Shape())-s.order:]

	inRanges := s.spectrumRanges(batch, s.inChannels, fftSize, weightModes)
	outRanges := s.spectrumRanges(batch, s.outChannels, fftSize, weightModes)
	b.SetSlice(outFFT, outRanges, s.contract(b, b.Slice(spec, inRanges), weight, s.separable))
	return outFFT
}

// outputSize resolves the spatial output shape of one forward pass.
func (s *SpectralConv[B]) outputSize(spatial []int, o forwardOptions) []int {
	switch {
	case o.outputShape != nil:
		if len(o.outputShape) != s.order {
			panic(fmt.Sprintf("spectral conv: output shape %v has %d axes, want %d", o.outputShape, len(o.outputShape), s.order))
		}
		return slices.Clone(o.outputShape)
	case s.scaling != nil:
		if o.site < 0 || o.site >= len(s.scaling) {
			panic(fmt.Sprintf("spectral conv: site %d out of range [0, %d)", o.site, len(s.scaling)))
		}
		return scaledShape(spatial, s.scaling[o.site])
	default:
		return slices.Clone(spatial)
	}
}

// Transform resamples x to the resolution the layer produces at site:
// outputShape when given, else the site's scaling factor, else the input
// resolution. x is returned unchanged when the resolution already matches.
func (s *SpectralConv[B]) Transform(x *tensor.RawTensor, site int, outputShape []int) *tensor.RawTensor {
	spatial := []int(x.Shape()[2:])
	target := s.outputSize(spatial, forwardOptions{outputShape: outputShape, site: site})
	if slices.Equal(spatial, target) {
		return x
	}
	return Resample(s.backend, x, []float64{1}, s.fftAxes(), target)
}

// SubConv returns a non-owning view of the layer bound to usage site i.
func (s *SpectralConv[B]) SubConv(site int) (*SubConv[B], error) {
	sites := max(1, len(s.scaling))
	if site < 0 || site >= sites {
		return nil, configErrorf("site", "%d out of range [0, %d)", site, sites)
	}
	return &SubConv[B]{main: s, site: site}, nil
}

// StateDict exports the weight ("weight" or "weight.core", "weight.factors.N",
// "weight.weights") and the bias ("bias"). Tensors share storage with the layer.
func (s *SpectralConv[B]) StateDict() map[string]*tensor.RawTensor {
	state := s.weight.StateDict("weight")
	if s.bias != nil {
		state["bias"] = s.bias
	}
	return state
}

// LoadStateDict copies tensors exported by StateDict into the layer.
// Every expected name must be present with a matching shape and dtype, and
// no other names are accepted.
func (s *SpectralConv[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	own := s.StateDict()
	for name := range state {
		if _, ok := own[name]; !ok {
			return errors.Errorf("load state dict: unexpected tensor %q", name)
		}
	}
	var bias *tensor.RawTensor
	if s.bias != nil {
		src, ok := state["bias"]
		if !ok {
			return errors.New("load state dict: missing tensor \"bias\"")
		}
		if !src.Shape().Equal(s.bias.Shape()) || src.DType() != s.bias.DType() {
			return errors.Errorf("load state dict: bias is %s%v, want %s%v",
				src.DType(), src.Shape(), s.bias.DType(), s.bias.Shape())
		}
		bias = src
	}
	if err := factorized.LoadStateDict(s.weight, "weight", state); err != nil {
		return errors.Wrap(err, "load state dict")
	}
	if bias != nil {
		copy(s.bias.Data(), bias.Data())
	}
	return nil
}

// Parameters returns the stored tensors sorted by name.
func (s *SpectralConv[B]) Parameters() []*Parameter[B] {
	state := s.StateDict()
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]*Parameter[B], len(names))
	for i, name := range names {
		params[i] = NewParameter(name, state[name], s.backend)
	}
	return params
}

// String returns a one-line summary of the layer.
func (s *SpectralConv[B]) String() string {
	return fmt.Sprintf("SpectralConv(in=%d, out=%d, n_modes=%v, max_n_modes=%v, weight=%s%v, separable=%t, complex=%t)",
		s.inChannels, s.outChannels, s.nModes, s.maxNModes, s.weight.Kind(), s.weight.Shape(), s.separable, s.complexData)
}
