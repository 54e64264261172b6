package kilter

// Option configures a FilterProtocol at construction time.
type Option func(*FilterProtocol)

// WithAbortOnUnknown makes ReadFrom synthesise an Abort event instead of
// surfacing a *message.UnknownMessage error whenever it decodes a frame with
// an identifier outside the known message table.
func WithAbortOnUnknown() Option {
	return func(p *FilterProtocol) {
		p.abortOnUnknown = true
	}
}
