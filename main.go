/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package main

import (
	"github.com/dburkart/micro/cmd/micro"
)

func main() {
	micro.Execute()
}
