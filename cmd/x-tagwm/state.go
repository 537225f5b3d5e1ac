package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/x-tagwm/internal/control"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/k0kubun/pp"
)

func printState(ctx context.Context, baseURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		windows []wm.Props
		outputs []control.Output
		tags    []control.Tag
	)
	for path, dst := range map[string]any{
		"/api/windows": &windows,
		"/api/outputs": &outputs,
		"/api/tags":    &tags,
	} {
		if err := getJSON(ctx, baseURL+path, dst); err != nil {
			return err
		}
	}

	pp.Println(outputs)
	pp.Println(tags)
	pp.Println(windows)
	return nil
}

func getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}
