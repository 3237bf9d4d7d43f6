package memstore

import "errors"

var errForeignKey = errors.New("memstore: referenced user does not exist")
