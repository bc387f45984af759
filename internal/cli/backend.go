package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/internal/mirror"
	"github.com/mesh-intelligence/coinage/internal/remote"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// remoteSession is a remote catalog plus the mirror holding its token.
type remoteSession struct {
	*remote.Catalog
	tokens mirror.Store
}

func (r *remoteSession) Close(ctx context.Context) error {
	return errors.Join(r.Catalog.Close(ctx), r.tokens.Close())
}

// openCatalog builds the catalog named by the configured backend. The
// caller must Close it.
func (a *app) openCatalog(ctx context.Context) (types.Catalog, error) {
	switch a.cfg.Backend {
	case types.BackendRemote:
		client, m, err := a.openClient(ctx)
		if err != nil {
			return nil, err
		}
		return &remoteSession{Catalog: remote.NewCatalog(client), tokens: m}, nil
	default:
		m, err := mirror.Open(ctx, a.cfg, a.log)
		if err != nil {
			return nil, fmt.Errorf("open mirror: %w", err)
		}
		store, err := catalog.Open(ctx, a.cfg, m, a.log)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		return store, nil
	}
}

// openClient builds a REST client whose token lives in the configured
// mirror. The caller must close the returned mirror.
func (a *app) openClient(ctx context.Context) (*remote.Client, mirror.Store, error) {
	m, err := mirror.Open(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open mirror: %w", err)
	}
	client := remote.New(a.cfg.APIURL,
		remote.WithTokenStore(remote.NewMirrorTokenStore(m)),
		remote.WithLogger(a.log),
	)
	return client, m, nil
}

// withCatalog opens the catalog, runs fn and closes it. Errors from fn are
// classified into exit codes; a failing Close is a system error.
func (a *app) withCatalog(ctx context.Context, fn func(types.Catalog) error) error {
	cat, err := a.openCatalog(ctx)
	if err != nil {
		return classify(err)
	}
	runErr := fn(cat)
	// Close must flush even when ctx was cancelled, e.g. by serve's signal.
	closeErr := cat.Close(context.WithoutCancel(ctx))
	if runErr != nil {
		if closeErr != nil {
			a.log.Error("error closing catalog", "error", closeErr)
		}
		return classify(runErr)
	}
	if closeErr != nil {
		return sysError(fmt.Errorf("close catalog: %w", closeErr))
	}
	return nil
}

// classify picks the exit code for err. Errors the user can fix by
// changing input exit 1; everything else exits 2.
func classify(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	var apiErr *remote.APIError
	switch {
	case types.IsValidation(err),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrMirrorUnknown),
		errors.Is(err, types.ErrSyncStrategyUnknown),
		errors.Is(err, types.ErrValidationUnknown):
		return userError(err)
	case errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError:
		return userError(err)
	default:
		return sysError(err)
	}
}
