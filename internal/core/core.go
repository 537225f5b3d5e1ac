package core

import (
	"errors"
	"net"
	"os"
	"strconv"
)

func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// BaseURL is the URL a client on this machine uses to reach a server listening on host and port.
func BaseURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + Address(host, port)
}

// https://stackoverflow.com/a/12518877
func FileExists(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, err
	}
}
