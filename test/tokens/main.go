/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	micro "github.com/dburkart/micro/api"
	"github.com/google/uuid"
)

/*
 * This tests aggressive line spamming against a running `micro serve`.
 * Each line is a fresh uuid, which scans as a mix of identifiers, integers
 * and minus signs, so no two inputs are alike.
 */

func main() {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client, err := micro.NewClientPool("localhost:8001", 10)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			for i := 0; i < 1000; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					line := fmt.Sprintf("let %s = %d", strings.ReplaceAll(uuid.NewString(), "-", " - "), i)
					tokens, err := client.Tokenize(line)
					if err != nil || !strings.HasPrefix(tokens[len(tokens)-1], "EndOfFile(") {
						fmt.Fprintln(os.Stderr, line, tokens, err)
						os.Exit(1)
					}
				}(i)
			}
		}()
	}

	wg.Wait()
}
