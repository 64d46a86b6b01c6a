package hoyolab

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"time"
)

// overseasSalt is the fixed DS salt for the overseas chronicle API.
const overseasSalt = "6s25p5ox5y14umn1p61aqyyvbvvl3lrt"

const dsLetters = "abcdefghijklmnopqrstuvwxyz"

// generateDS produces the "t,r,hash" dynamic-secret header the chronicle API
// requires: unix timestamp, 6 random lowercase letters, and the md5 of
// "salt=<salt>&t=<t>&r=<r>".
func generateDS(salt string) string {
	t := time.Now().Unix()
	r := make([]byte, 6)
	for i := range r {
		r[i] = dsLetters[rand.Intn(len(dsLetters))]
	}
	hash := md5.Sum([]byte(fmt.Sprintf("salt=%s&t=%d&r=%s", salt, t, r)))
	return fmt.Sprintf("%d,%s,%x", t, r, hash)
}

// serverOf maps a Star Rail UID to its region server identifier. The first
// digit of the UID is the region selector, frozen by the game's own sharding.
func serverOf(uid int64) string {
	first := uid
	for first >= 10 {
		first /= 10
	}
	switch first {
	case 1, 2:
		return "prod_gf_cn"
	case 5:
		return "prod_qd_cn"
	case 6:
		return "prod_official_usa"
	case 7:
		return "prod_official_eur"
	case 9:
		return "prod_official_cht"
	default:
		return "prod_official_asia"
	}
}
