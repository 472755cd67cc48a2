/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package micro

type Client interface {
	Close() error
	Tokenize(string) ([]string, error)
	SetDialect(string) error
}

// NewClient connects to a micro line server at address (host:port).
func NewClient(address string) (Client, error) {
	return NewClientPool(address, 1)
}

// NewClientPool opens size connections to a micro line server, allowing that
// many concurrent Tokenize calls.
func NewClientPool(address string, size uint) (Client, error) {
	client := &RemoteClient{}
	if err := client.Open(address, size); err != nil {
		return nil, err
	}
	return client, nil
}
