// browser.go — команда open-browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// DefaultURL — адрес локального сервера разработки.
const DefaultURL = "http://127.0.0.1:8000/"

// serverWait — ожидание запуска сервера перед открытием браузера.
const serverWait = 2 * time.Second

// errInvalidURL — URL без схемы http:// или https://.
var errInvalidURL = errors.New("URLは http:// または https:// で始まる必要があります")

// browserOpener открывает URL; newWindow — просьба открыть новое окно.
type browserOpener func(url string, newWindow bool) error

// sleepFunc ожидает d или отмены ctx.
type sleepFunc func(ctx context.Context, d time.Duration) error

func newOpenBrowserCmd() *cobra.Command {
	var wait, newWindow bool

	cmd := &cobra.Command{
		Use:   "open-browser [URL]",
		Short: "Открыть приложение в браузере по умолчанию",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := DefaultURL
			if len(args) == 1 {
				url = args[0]
			}
			return runOpenBrowser(cmd.Context(), cmd.OutOrStdout(), url, wait, newWindow, systemOpener, sleepContext)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", true, "подождать запуска сервера перед открытием")
	cmd.Flags().BoolVar(&newWindow, "new-window", false, "открыть новое окно вместо существующего")
	return cmd
}

func runOpenBrowser(ctx context.Context, out io.Writer, url string, wait, newWindow bool, open browserOpener, sleep sleepFunc) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("無効なURL: %s: %w", url, errInvalidURL)
	}

	if wait {
		fmt.Fprintf(out, "開発サーバーの起動を待っています... (%d秒)\n", int(serverWait.Seconds()))
		if err := sleep(ctx, serverWait); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "ブラウザでURLを開いています: %s\n", url)
	if err := open(url, newWindow); err != nil {
		return fmt.Errorf("ブラウザを開けませんでした: %w", err)
	}

	if newWindow {
		fmt.Fprintln(out, "✓ ブラウザで新しいウィンドウを開きました")
	} else {
		fmt.Fprintln(out, "✓ ブラウザで開きました（既存ウィンドウを再利用）")
	}
	return nil
}

// openerCommand возвращает системную команду открытия URL.
// Переиспользование окна решает сам браузер.
func openerCommand(goos, url string, newWindow bool) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	case "darwin":
		if newWindow {
			return "open", []string{"-n", url}
		}
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

func systemOpener(url string, newWindow bool) error {
	name, args := openerCommand(runtime.GOOS, url, newWindow)
	return exec.Command(name, args...).Start()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
