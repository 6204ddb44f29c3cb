package main

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	echoportal "github.com/adrodovia/portal/apps/portal/echo"
	"github.com/adrodovia/portal/services/offline"
)

// checkManifest fetches every asset of the offline manifest the way the worker installs them.
func (cli *commandLine) checkManifest() error {
	fetch := offline.HandlerFetcher(echoportal.AssetHandler(cli.conf))

	fmt.Fprintln(cli.out, cli.bold("cache "+cli.conf.Cache.Version))
	var failed int
	for _, path := range cli.conf.Cache.Manifest {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		if err != nil {
			return errors.Wrap(err, "building request for "+path)
		}
		res, err := fetch(req)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(cli.out, "  FAIL %s: %v\n", path, err)
		case res.Status < 200 || res.Status > 299:
			failed++
			fmt.Fprintf(cli.out, "  FAIL %s: status %d\n", path, res.Status)
		default:
			fmt.Fprintf(cli.out, "  ok   %s %s\n", path, cli.dim(fmt.Sprintf("(%d bytes)", len(res.Body))))
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d assets cannot be cached", failed, len(cli.conf.Cache.Manifest))
	}
	return nil
}
