package stub

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params configures the stub process.
type Params struct {
	Addr string
}

// Module wires the stub server and its HTTP listener into an fx app.
func Module(p Params) fx.Option {
	return fx.Options(
		fx.Provide(
			func(logger *zap.Logger) *Server { return New(logger.Named("stub")) },
		),
		fx.Invoke(func(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner, logger *zap.Logger) {
			srv := &http.Server{Addr: p.Addr, Handler: s.Router()}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					ln, err := net.Listen("tcp", p.Addr)
					if err != nil {
						return err
					}
					logger.Info("stub services listening", zap.String("addr", ln.Addr().String()))
					go func() {
						if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
							logger.Error("stub server failed", zap.Error(err))
							_ = shutdowner.Shutdown()
						}
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return srv.Shutdown(ctx)
				},
			})
		}),
	)
}
