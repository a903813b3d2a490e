//go:build debug

package pil

import (
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/sirupsen/logrus"
)

func init() {
	address := os.Getenv("PIL_PPROF_ADDRESS")
	if address == "" {
		address = "127.0.0.1:8964"
	}
	go func() {
		err := http.ListenAndServe(address, nil)
		if err != nil {
			logrus.Warn("pprof: ", err)
		}
	}()
}
