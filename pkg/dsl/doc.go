/*
Package dsl provides a fluent builder for constructing agent definitions in Go.

It is an alternative to puzzle text or YAML/JSON documents, useful for tests and
generated games. Successors are referenced by agent name and resolved to ids at
Build time; agent ids follow the order in which agents are added.

Example usage:

	b := dsl.New()
	b.Add("Monkey 0").Items(79, 98).Times(19).DivisibleBy(23).Throw("Monkey 2", "Monkey 3")
	b.Add("Monkey 1").Items(54, 65, 75, 74).Plus(6).DivisibleBy(19).Throw("Monkey 2", "Monkey 0")
	b.Add("Monkey 2").Items(79, 60, 97).Squared().DivisibleBy(13).Throw("Monkey 1", "Monkey 3")
	b.Add("Monkey 3").Items(74).Plus(3).DivisibleBy(17).Throw("Monkey 0", "Monkey 1")

	defs, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	answer, err := keepaway.Run(defs, domain.BoundedRounds, domain.BoundedDampener)
*/
package dsl
