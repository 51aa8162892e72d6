package btreemap_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/cellmap/pkg/btreemap"
	"github.com/flier/cellmap/pkg/chunk"
)

func TestEntryAPI(t *testing.T) {
	Convey("Given a map with four pairs", t, func() {
		m := filledMap()

		Convey("Entry should expose the key for both variants", func() {
			So(m.Entry(5).Key(), ShouldEqual, 5)
			So(m.Entry(-1).Key(), ShouldEqual, -1)
		})

		Convey("OrInsert on a vacant entry should place the default", func() {
			So(*m.Entry(997).OrInsert(9970), ShouldEqual, 9970)
			So(m.Len(), ShouldEqual, 5)
		})

		Convey("OrInsert on an occupied entry should keep the present value", func() {
			So(*m.Entry(42).OrInsert(9999), ShouldEqual, 420)
			So(m.Len(), ShouldEqual, 4)
		})

		Convey("OrInsert should be idempotent", func() {
			So(*m.Entry(997).OrInsert(12), ShouldEqual, 12)
			So(*m.Entry(997).OrInsert(34), ShouldEqual, 12)
			So(m.Len(), ShouldEqual, 5)
		})
	})
}

func TestEntryAPI2(t *testing.T) {
	Convey("Given a map with string keys", t, func() {
		m := btreemap.New[string, int](
			chunk.NewMemBackend(), chunk.NewBumpAlloc(0),
			chunk.StringCodec{}, chunk.IntCodec{},
		)

		m.Entry("poneyland").OrInsert(12)

		Convey("The occupied view should allow repeated in-place mutation", func() {
			o, ok := m.Entry("poneyland").(*btreemap.OccupiedEntry[string, int])
			So(ok, ShouldBeTrue)

			*o.GetMut() += 10
			So(*o.Get(), ShouldEqual, 22)

			// We can use the same entry multiple times.
			*o.GetMut() += 2

			So(*m.Get("poneyland"), ShouldEqual, 24)
			So(m.Len(), ShouldEqual, 1)
		})
	})
}

func TestOccupiedEntry(t *testing.T) {
	Convey("Given an occupied entry", t, func() {
		m := filledMap()

		o, ok := m.Entry(42).(*btreemap.OccupiedEntry[int, int])
		So(ok, ShouldBeTrue)

		Convey("It should expose key and value", func() {
			So(o.Key(), ShouldEqual, 42)
			So(*o.Get(), ShouldEqual, 420)
		})

		Convey("Insert should replace and hand back the old value", func() {
			old := o.Insert(520)

			So(*old, ShouldEqual, 420)
			So(*m.Get(42), ShouldEqual, 520)
			So(m.Len(), ShouldEqual, 4)
		})

		Convey("IntoMut should consume the entry into its value", func() {
			*o.IntoMut() += 100

			So(*m.Get(42), ShouldEqual, 520)
		})
	})
}

func TestVacantEntry(t *testing.T) {
	Convey("Given a vacant entry", t, func() {
		m := filledMap()

		v, ok := m.Entry(7).(*btreemap.VacantEntry[int, int])
		So(ok, ShouldBeTrue)

		Convey("It should expose the pending key", func() {
			So(v.Key(), ShouldEqual, 7)
		})

		Convey("Insert should place the pair and return its address", func() {
			p := v.Insert(70)

			So(*p, ShouldEqual, 70)
			So(m.Len(), ShouldEqual, 5)

			Convey("Mutations through the address should be visible to lookups", func() {
				*p += 7

				So(*m.Get(7), ShouldEqual, 77)
			})
		})
	})

	Convey("Given a vacant entry whose insert splits the leaf", t, func() {
		m := emptyMap()
		for i := 1; i <= 11; i++ {
			m.Insert(i * 2, i * 20)
		}

		v, ok := m.Entry(5).(*btreemap.VacantEntry[int, int])
		So(ok, ShouldBeTrue)

		Convey("The returned address should survive the split", func() {
			p := v.Insert(50)

			So(*p, ShouldEqual, 50)

			*p += 5
			So(*m.Get(5), ShouldEqual, 55)
			So(m.Len(), ShouldEqual, 12)
		})
	})
}
