package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/matchday/refassign/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestApp_New(t *testing.T) {
	Convey("Given app options", t, func() {
		Convey("When none are supplied defaults apply", func() {
			a := New()
			So(a.addr, ShouldEqual, ":8000")
			So(a.shutdownTimeout, ShouldEqual, defaultShutdownTimeout)
		})

		Convey("When options are supplied they take effect", func() {
			mux := http.NewServeMux()
			a := New(
				WithAddr("127.0.0.1:9999"),
				WithHandler(mux),
				WithShutdownTimeout(time.Second),
			)
			So(a.addr, ShouldEqual, "127.0.0.1:9999")
			So(a.handler, ShouldEqual, mux)
			So(a.shutdownTimeout, ShouldEqual, time.Second)
		})

		Convey("When zero values are supplied they are ignored", func() {
			a := New(WithAddr(""), WithHandler(nil), WithShutdownTimeout(0), WithLogger(nil))
			So(a.addr, ShouldEqual, ":8000")
			So(a.handler, ShouldNotBeNil)
			So(a.log, ShouldNotBeNil)
		})
	})
}

func TestApp_Run(t *testing.T) {
	Convey("Given a running app", t, func() {
		addr := freeAddr(t)
		mux := http.NewServeMux()
		mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "pong")
		})

		a := New(WithAddr(addr), WithHandler(mux), WithShutdownTimeout(time.Second))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- a.Run(ctx) }()

		Convey("When a request arrives it is served", func() {
			var resp *http.Response
			var err error
			for i := 0; i < 50; i++ {
				resp, err = http.Get("http://" + addr + "/ping")
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			So(err, ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			So(string(body), ShouldEqual, "pong")

			Convey("And canceling the context shuts down cleanly", func() {
				cancel()
				select {
				case err := <-done:
					So(err, ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("server did not stop")
				}
			})
		})

		Reset(cancel)
	})

	Convey("Given an address that cannot be bound", t, func() {
		addr := freeAddr(t)
		l, err := net.Listen("tcp", addr)
		So(err, ShouldBeNil)
		defer l.Close()

		a := New(WithAddr(addr), WithHandler(http.NewServeMux()))

		Convey("When running it the listener error is returned", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			So(a.Run(ctx), ShouldNotBeNil)
		})
	})
}
