package gen

import "strings"

// exampleAnnotatedUnit shows the model what a well-annotated unit looks like.
const exampleAnnotatedUnit = `public class Calculator {

    /*@
         requires a != null && b != null;
         ensures \result >= 0;
         ensures \result <= Integer.MAX_VALUE;
     @*/
    public int add(int a, int b) {
        return a + b;
    }
}`

// BuildPrompt assembles the generation prompt for a source unit, folding in
// feedback from the previous attempt when present.
func BuildPrompt(source, feedback string) string {
	var b strings.Builder
	b.WriteString(`You are a Java Modeling Language (JML) expert. Generate correct JML annotations
for the following Java code following these rules:

1. Use requires/ensures clauses for method contracts
2. Define class invariants where needed
3. Handle nullability and exceptions properly
4. Use JML keywords correctly (e.g., signals, assignable)
5. Validate data ranges with invariant clauses
6. Do not use comments inside annotations

Return ONLY the Java code with JML annotations in Java comment format without explanations.
Return ONLY result code without any Markdown syntax.

Example of code with JML annotations:
`)
	b.WriteString(exampleAnnotatedUnit)
	b.WriteString("\n")
	if strings.TrimSpace(feedback) != "" {
		b.WriteString("\nPrevious attempt had these issues:\n")
		b.WriteString(feedback)
		b.WriteString("\nPlease address these issues in your new annotations.\n")
	}
	b.WriteString("\nJava Code to annotate:\n")
	b.WriteString(source)
	b.WriteString("\n")
	return b.String()
}
