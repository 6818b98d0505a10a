package compiler

// ------------------------------------------------------------
// Shared option groups. Each group embeds the one it extends, so the
// option table lists the most specific options first.
// ------------------------------------------------------------

// CommonToolArguments holds the options every tool understands plus the
// free (positional) arguments.
type CommonToolArguments struct {
	FreeArgs []string `cli_argument:"free" cli_desc:"Source files and directories" json:"freeArgs"`

	Help             bool `cli_flag:"-help"    cli_desc:"Print a synopsis of standard options" json:"help"`
	ExtraHelp        bool `cli_flag:"-X"       cli_desc:"Print a synopsis of advanced options" json:"extraHelp"`
	Version          bool `cli_flag:"-version" cli_desc:"Display compiler version"             json:"version"`
	Verbose          bool `cli_flag:"-verbose" cli_desc:"Enable verbose logging output"        json:"verbose"`
	SuppressWarnings bool `cli_flag:"-nowarn"  cli_desc:"Generate no warnings"                 json:"suppressWarnings"`
}

// FreeArguments returns the positional arguments.
func (a CommonToolArguments) FreeArguments() []string {
	return a.FreeArgs
}

// Coroutines state accepted by -Xcoroutines.
const (
	CoroutinesEnable = "enable"
	CoroutinesWarn   = "warn"
	CoroutinesError  = "error"
)

// CommonCompilerArguments are shared by all compiler front-ends.
type CommonCompilerArguments struct {
	CommonToolArguments

	LanguageVersion  string   `cli_flag:"-language-version" cli_desc:"Provide source compatibility with specified language version" json:"languageVersion"`
	APIVersion       string   `cli_flag:"-api-version"      cli_desc:"Allow to use declarations only from the specified version of bundled libraries" json:"apiVersion"`
	PluginClasspaths []string `cli_flag:"-Xplugin"          cli_desc:"Load plugins from the given classpath" json:"pluginClasspaths"`
	PluginOptions    []string `cli_flag:"-P"                cli_desc:"Pass an option to a plugin (plugin:<pluginId>:<optionName>=<value>)" json:"pluginOptions"`
	NoInline         bool     `cli_flag:"-Xno-inline"       cli_desc:"Disable method inlining" json:"noInline"`
	MultiPlatform    bool     `cli_flag:"-Xmulti-platform"  cli_desc:"Enable experimental language support for multi-platform projects" json:"multiPlatform"`
	ReportPerf       bool     `cli_flag:"-Xreport-perf"     cli_desc:"Report detailed performance statistics" json:"reportPerf"`
	Coroutines       string   `cli_flag:"-Xcoroutines"      cli_desc:"Enable coroutines or report warnings or errors on declarations and use sites of 'suspend' modifier" cli_enum:"enable|warn|error" json:"coroutinesState"`
}

func (a *CommonCompilerArguments) SetDefaults() error {
	a.Coroutines = CoroutinesWarn
	return nil
}

// ------------------------------------------------------------
// jvm
// ------------------------------------------------------------

type JVMCompilerArguments struct {
	CommonCompilerArguments

	Destination      string   `cli_flag:"-d"                  cli_desc:"Destination for generated class files" json:"destination"`
	Classpath        string   `cli_flag:"-classpath"          cli_desc:"Paths where to find user class files" json:"classpath"`
	IncludeRuntime   bool     `cli_flag:"-include-runtime"    cli_desc:"Include Kotlin runtime in to resulting .jar" json:"includeRuntime"`
	JDKHome          string   `cli_flag:"-jdk-home"           cli_desc:"Path to JDK home directory to include into classpath, if differs from default JAVA_HOME" json:"jdkHome"`
	NoJDK            bool     `cli_flag:"-no-jdk"             cli_desc:"Don't include Java runtime into classpath" json:"noJdk"`
	NoStdlib         bool     `cli_flag:"-no-stdlib"          cli_desc:"Don't include Kotlin runtime into classpath" json:"noStdlib"`
	NoReflect        bool     `cli_flag:"-no-reflect"         cli_desc:"Don't include Kotlin reflection implementation into classpath" json:"noReflect"`
	Module           string   `cli_flag:"-module"             cli_desc:"Path to the module file to compile" json:"module"`
	ScriptTemplates  []string `cli_flag:"-script-templates"   cli_desc:"Script definition template classes" json:"scriptTemplates"`
	ModuleName       string   `cli_flag:"-module-name"        cli_desc:"Module name" json:"moduleName"`
	JVMTarget        string   `cli_flag:"-jvm-target"         cli_desc:"Target version of the generated JVM bytecode" cli_enum:"1.6|1.8" json:"jvmTarget"`
	FriendPaths      []string `cli_flag:"-Xfriend-paths"      cli_desc:"Paths to output directories for friend modules" json:"friendPaths"`
	NoCallAssertions bool     `cli_flag:"-Xno-call-assertions" cli_desc:"Don't generate not-null assertion after each invocation of method returning not-null" json:"noCallAssertions"`
	DeclarationsOut  string   `cli_flag:"-Xdump-declarations-to" cli_desc:"Path to JSON file to dump Java to Kotlin declaration mappings" json:"declarationsOutputPath"`
	BuildFile        string   `cli_flag:"-Xbuild-file"        cli_desc:"Path to the .xml build file to compile" json:"buildFile"`
}

func (a *JVMCompilerArguments) SetDefaults() error {
	if err := a.CommonCompilerArguments.SetDefaults(); err != nil {
		return err
	}
	a.JVMTarget = "1.6"
	return nil
}

// ------------------------------------------------------------
// js
// ------------------------------------------------------------

type JSCompilerArguments struct {
	CommonCompilerArguments

	OutputFile    string `cli_flag:"-output"         cli_desc:"Output file path" json:"outputFile"`
	NoStdlib      bool   `cli_flag:"-no-stdlib"      cli_desc:"Don't use bundled Kotlin stdlib" json:"noStdlib"`
	Libraries     string `cli_flag:"-libraries"      cli_desc:"Paths to Kotlin libraries with .meta.js and .kjsm files, separated by system file separator" json:"libraries"`
	SourceMap     bool   `cli_flag:"-source-map"     cli_desc:"Generate source map" json:"sourceMap"`
	MetaInfo      bool   `cli_flag:"-meta-info"      cli_desc:"Generate .meta.js and .kjsm files with metadata. Use to create a library" json:"metaInfo"`
	Target        string `cli_flag:"-target"         cli_desc:"Generate JS files for specific ECMA version" cli_enum:"v5|v6" json:"target"`
	ModuleKind    string `cli_flag:"-module-kind"    cli_desc:"Kind of a module generated by compiler" cli_enum:"plain|amd|commonjs|umd" json:"moduleKind"`
	Main          string `cli_flag:"-main"           cli_desc:"Whether a main function should be called" cli_enum:"call|noCall" json:"main"`
	OutputPrefix  string `cli_flag:"-output-prefix"  cli_desc:"Path to file which will be added to the beginning of output file" json:"outputPrefix"`
	OutputPostfix string `cli_flag:"-output-postfix" cli_desc:"Path to file which will be added to the end of output file" json:"outputPostfix"`
	TypedArrays   bool   `cli_flag:"-Xtyped-arrays"  cli_desc:"Translate primitive arrays to JS typed arrays" json:"typedArrays"`
}

func (a *JSCompilerArguments) SetDefaults() error {
	if err := a.CommonCompilerArguments.SetDefaults(); err != nil {
		return err
	}
	a.Target = "v5"
	a.ModuleKind = "plain"
	a.Main = "call"
	return nil
}

// ------------------------------------------------------------
// metadata
// ------------------------------------------------------------

type MetadataCompilerArguments struct {
	CommonCompilerArguments

	Destination string `cli_flag:"-d"           cli_desc:"Destination for generated .kotlin_metadata files" json:"destination"`
	Classpath   string `cli_flag:"-classpath"   cli_desc:"Paths where to find library .kotlin_metadata files" json:"classpath"`
	ModuleName  string `cli_flag:"-module-name" cli_desc:"Module name" json:"moduleName"`
}
