package btreemap

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDumper(t *testing.T) {
	Convey("Given a tree with a few splits", t, func() {
		m := newTestMap()
		for i := 1; i <= 30; i++ {
			m.Insert(i, i*10)
		}

		dump := m.DumpString()

		Convey("The dump should start with the header line", func() {
			So(dump, ShouldStartWith, "root=")
			So(dump, ShouldContainSubstring, "len=30")
		})

		Convey("The dump should describe every allocated cell", func() {
			hdr := m.header.Get()

			So(strings.Count(dump, "cell "), ShouldEqual, hdr.NodeCount)
			So(dump, ShouldContainSubstring, "leaf")
			So(dump, ShouldContainSubstring, "edges:")
		})
	})
}
