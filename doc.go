/*
Package keepaway simulates the "keep away" item-redistribution game and computes
its answer: the product of the two largest per-agent inspection counters.

A game is a list of agents. Each agent holds a FIFO queue of worry values, a
transform (new = old <op> <operand>), a divisibility test and two successor ids.
Every round, each agent in id order drains its queue: it inspects each item,
applies the transform, divides by the dampener and throws the value to one of its
successors depending on the test.

# Modes

Two call shapes exist:

  - bounded: 20 rounds, dampener 3.
  - unbounded: 10000 rounds, dampener 1. Values are reduced modulo the product of
    all divisors after every inspection, which keeps them bounded without changing
    any divisibility outcome.

# Usage

For already-built definitions, Run is the whole API:

	answer, err := keepaway.Run(defs, domain.BoundedRounds, domain.BoundedDampener)

For puzzle text, use a Solver. It parses the input, caches finished answers and
enforces a deadline:

	s := keepaway.New(
		keepaway.WithCache(memory.NewCache()),
		keepaway.WithTimeout(5*time.Second),
	)
	res, err := s.Solve(ctx, input, domain.ModeUnbounded)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Answer)

Malformed input fails before any simulation starts with an error wrapping
domain.ErrMalformedDefinition; arithmetic beyond int64 fails with
domain.ErrArithmeticOverflow.
*/
package keepaway
