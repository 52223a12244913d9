package device

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(strings.TrimPrefix(srv.URL, "http://")), srv
}

func TestState(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("path = %s, want /get", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"theme":3,"brightness":80,"version":"1.52"}`)
	})

	st, err := c.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Theme != ThemeCustom || st.Brightness != 80 || st.Version != "1.52" {
		t.Errorf("state = %+v", st)
	}
}

func TestStateErrorClassification(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"theme":`)
			},
			ErrUnreachable,
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			ErrRejected,
		},
		{
			"theme out of range",
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"theme":9,"brightness":50}`)
			},
			ErrRejected,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cli, _ := testClient(t, c.handler)
			if _, err := cli.State(context.Background()); !errors.Is(err, c.want) {
				t.Errorf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestStateUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	c := NewClient(host)
	if _, err := c.State(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
	if c.TestConnection(context.Background()) {
		t.Error("TestConnection = true against closed server")
	}
}

func TestTestConnection(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"theme":0}`)
	})
	if !c.TestConnection(context.Background()) {
		t.Error("TestConnection = false against live server")
	}
}

func TestSetThemeAndBrightness(t *testing.T) {
	var got []string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RawQuery)
	})

	if err := c.SetTheme(context.Background(), ThemeCustom); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBrightness(context.Background(), 50); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || got[0] != "theme=3" || got[1] != "brt=50" {
		t.Errorf("queries = %v", got)
	}
}

func TestLocalValidationSkipsRequest(t *testing.T) {
	requests := 0
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	for _, theme := range []int{-1, 4} {
		if err := c.SetTheme(context.Background(), theme); !errors.Is(err, ErrRejected) {
			t.Errorf("SetTheme(%d): err = %v, want ErrRejected", theme, err)
		}
	}
	for _, level := range []int{-1, 101} {
		if err := c.SetBrightness(context.Background(), level); !errors.Is(err, ErrRejected) {
			t.Errorf("SetBrightness(%d): err = %v, want ErrRejected", level, err)
		}
	}

	if requests != 0 {
		t.Errorf("invalid values reached the device: %d requests", requests)
	}
}

func TestUploadAndDisplay(t *testing.T) {
	var calls []string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doUpload":
			if r.Method != http.MethodPost {
				t.Errorf("upload method = %s", r.Method)
			}
			if r.URL.Query().Get("dir") != "/image/" {
				t.Errorf("dir = %q", r.URL.Query().Get("dir"))
			}
			f, hdr, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			defer f.Close()
			if hdr.Filename != "dash-a.jpg" {
				t.Errorf("filename = %q", hdr.Filename)
			}
			body, _ := io.ReadAll(f)
			if string(body) != "jpegbytes" {
				t.Errorf("body = %q", body)
			}
			calls = append(calls, "upload")
		case "/set":
			if got := r.URL.Query().Get("img"); got != "/image/dash-a.jpg" {
				t.Errorf("img = %q", got)
			}
			calls = append(calls, "display")
		}
	})

	err := c.UploadAndDisplay(context.Background(), []byte("jpegbytes"), "dash-a.jpg")
	if err != nil {
		t.Fatal(err)
	}

	if len(calls) != 2 || calls[0] != "upload" || calls[1] != "display" {
		t.Errorf("calls = %v, want upload then display", calls)
	}
}

func TestUploadFailureSkipsDisplay(t *testing.T) {
	var displayed bool
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doUpload":
			w.WriteHeader(http.StatusInsufficientStorage)
		case "/set":
			displayed = true
		}
	})

	err := c.UploadAndDisplay(context.Background(), []byte("x"), "dash-b.jpg")
	if !errors.Is(err, ErrRejected) {
		t.Errorf("err = %v, want ErrRejected", err)
	}
	if displayed {
		t.Error("display command issued after failed upload")
	}
}

func TestDisplayFailureFailsOperation(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/set" {
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	err := c.UploadAndDisplay(context.Background(), []byte("x"), "dash-b.jpg")
	if !errors.Is(err, ErrRejected) {
		t.Errorf("err = %v, want ErrRejected", err)
	}
}
